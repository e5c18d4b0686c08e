// Package memstore is an in-process store.Store used by tests and local runs.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

type txKey struct{}

// Store keeps everything in maps. Writes are serialized; a transaction holds
// the write lock for its whole duration and restores a snapshot on failure.
type Store struct {
	writeMu sync.Mutex   // serializes writers and transactions
	mu      sync.RWMutex // guards the maps

	providers map[string]*models.Provider
	enquiries map[string]*models.Enquiry
	users     map[string]*models.User

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		providers: make(map[string]*models.Provider),
		enquiries: make(map[string]*models.Enquiry),
		users:     make(map[string]*models.User),
		now:       time.Now,
	}
}

var _ store.Store = (*Store)(nil)

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lockWrite takes the writer lock unless ctx already runs inside a transaction.
func (s *Store) lockWrite(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.writeMu.Lock()
	return s.writeMu.Unlock
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	providers map[string]*models.Provider
	enquiries map[string]*models.Enquiry
	users     map[string]*models.User
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		providers: make(map[string]*models.Provider, len(s.providers)),
		enquiries: make(map[string]*models.Enquiry, len(s.enquiries)),
		users:     make(map[string]*models.User, len(s.users)),
	}
	for k, v := range s.providers {
		snap.providers[k] = v.Clone()
	}
	for k, v := range s.enquiries {
		snap.enquiries[k] = v.Clone()
	}
	for k, v := range s.users {
		u := *v
		snap.users[k] = &u
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = snap.providers
	s.enquiries = snap.enquiries
	s.users = snap.users
}

// Providers

func (s *Store) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) GetProviderByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.providers {
		if p.UserID == userID {
			return p.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindListedProviders(ctx context.Context, area, postcode string, category *models.Category) ([]models.Provider, error) {
	return s.listProviders(func(p *models.Provider) bool {
		if !p.Active || !p.Verified {
			return false
		}
		if category != nil && p.Category != *category {
			return false
		}
		return strings.HasPrefix(p.Postcode, area) || p.Postcode == postcode
	}), nil
}

func (s *Store) ListProviders(ctx context.Context) ([]models.Provider, error) {
	return s.listProviders(func(*models.Provider) bool { return true }), nil
}

func (s *Store) ListLapsedSubscriptions(ctx context.Context, now time.Time) ([]models.Provider, error) {
	return s.listProviders(func(p *models.Provider) bool {
		return p.SubscriptionActive && p.SubscriptionEndsAt != nil && p.SubscriptionEndsAt.Before(now)
	}), nil
}

func (s *Store) listProviders(keep func(*models.Provider) bool) []models.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Provider, 0)
	for _, p := range s.providers {
		if keep(p) {
			out = append(out, *p.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) CreateProvider(ctx context.Context, p *models.Provider) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	p.GenIDIfEmpty()
	if _, exists := s.providers[p.ID]; exists {
		return store.ErrDuplicate
	}
	for _, other := range s.providers {
		if other.UserID == p.UserID {
			return store.ErrDuplicate
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	p.Version = 1
	s.providers[p.ID] = p.Clone()
	return nil
}

func (s *Store) UpdateProvider(ctx context.Context, id string, fn store.ProviderMutator) (*models.Provider, error) {
	defer s.lockWrite(ctx)()

	s.mu.RLock()
	current, ok := s.providers[id]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.Version = current.Version + 1
	next.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.providers[id] = next.Clone()
	s.mu.Unlock()
	return next, nil
}

// Enquiries

func (s *Store) GetEnquiry(ctx context.Context, id string) (*models.Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.enquiries[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e.Clone(), nil
}

func (s *Store) CreateEnquiry(ctx context.Context, e *models.Enquiry) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	e.GenIDIfEmpty()
	if _, exists := s.enquiries[e.ID]; exists {
		return store.ErrDuplicate
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	e.UpdatedAt = e.CreatedAt
	s.enquiries[e.ID] = e.Clone()
	return nil
}

func (s *Store) UpdateEnquiry(ctx context.Context, id string, fn store.EnquiryMutator) (*models.Enquiry, error) {
	defer s.lockWrite(ctx)()

	s.mu.RLock()
	current, ok := s.enquiries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID

	s.mu.Lock()
	s.enquiries[id] = next.Clone()
	s.mu.Unlock()
	return next, nil
}

func (s *Store) ListEnquiriesByProvider(ctx context.Context, providerID string) ([]models.Enquiry, error) {
	return s.listEnquiries(func(e *models.Enquiry) bool { return e.ProviderID == providerID }), nil
}

func (s *Store) ListEnquiriesByClient(ctx context.Context, clientID string) ([]models.Enquiry, error) {
	return s.listEnquiries(func(e *models.Enquiry) bool { return e.ClientID == clientID }), nil
}

func (s *Store) listEnquiries(keep func(*models.Enquiry) bool) []models.Enquiry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Enquiry, 0)
	for _, e := range s.enquiries {
		if keep(e) {
			out = append(out, *e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	defer s.lockWrite(ctx)()
	s.mu.Lock()
	defer s.mu.Unlock()

	u.GenIDIfEmpty()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range s.users {
		if other.ID == u.ID || other.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}
