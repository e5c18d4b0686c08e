package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/gate"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

// errNotLapsed aborts an expiry update when the subscription was renewed in the meantime.
var errNotLapsed = errors.New("subscription not lapsed")

// ISubscriptionService defines the interface for subscription operations.
type ISubscriptionService interface {
	Activate(ctx context.Context, providerID string) (*models.Provider, error)
	Cancel(ctx context.Context, providerID string) (*models.Provider, error)
	ExpireLapsed(ctx context.Context) (int, error)
}

type subscriptionService struct {
	store store.Store
	gate  *gate.Gate
	now   func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(st store.Store, g *gate.Gate) ISubscriptionService {
	return &subscriptionService{store: st, gate: g, now: time.Now}
}

// Activate starts a subscription period now. A provider switched off by the
// quota stays off until its owner turns the profile back on.
func (s *subscriptionService) Activate(ctx context.Context, providerID string) (*models.Provider, error) {
	now := s.now().UTC()
	p, err := s.store.UpdateProvider(ctx, providerID, func(p *models.Provider) error {
		s.gate.ActivateSubscription(p, now)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate subscription for provider %s: %w", providerID, err)
	}
	return p, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, providerID string) (*models.Provider, error) {
	p, err := s.store.UpdateProvider(ctx, providerID, func(p *models.Provider) error {
		s.gate.CancelSubscription(p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel subscription for provider %s: %w", providerID, err)
	}
	return p, nil
}

// ExpireLapsed cancels every subscription whose period has ended and returns
// how many were cancelled. It keeps going past individual failures.
func (s *subscriptionService) ExpireLapsed(ctx context.Context) (int, error) {
	now := s.now().UTC()
	lapsed, err := s.store.ListLapsedSubscriptions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list lapsed subscriptions: %w", err)
	}

	expired := 0
	var errs []error
	for i := range lapsed {
		id := lapsed[i].ID
		_, err := s.store.UpdateProvider(ctx, id, func(p *models.Provider) error {
			if !s.gate.Expired(p, now) {
				return errNotLapsed
			}
			s.gate.CancelSubscription(p)
			return nil
		})
		switch {
		case err == nil:
			expired++
			log.Printf("Subscription for provider %s expired", id)
		case errors.Is(err, errNotLapsed):
		default:
			log.Printf("Failed to expire subscription for provider %s: %v", id, err)
			errs = append(errs, fmt.Errorf("provider %s: %w", id, err))
		}
	}
	return expired, errors.Join(errs...)
}
