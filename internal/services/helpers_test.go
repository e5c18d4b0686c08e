package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/LewF-Dev/local-help-platform/internal/auth"
	"github.com/LewF-Dev/local-help-platform/internal/config"
	"github.com/LewF-Dev/local-help-platform/internal/gate"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store/memstore"
)

func init() {
	auth.HashCost = bcrypt.MinCost
}

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) EnquiryReceived(ctx context.Context, provider *models.Provider, owner *models.User, enquiry *models.Enquiry) error {
	args := m.Called(ctx, provider, owner, enquiry)
	return args.Error(0)
}

func (m *MockNotifier) UserRegistered(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockNotifier) PhotoUploaded(ctx context.Context, providerID, key string) error {
	args := m.Called(ctx, providerID, key)
	return args.Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GeneratePresignedPutURL(ctx context.Context, providerID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, providerID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) GetObject(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockStorage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

type testEnv struct {
	store    *memstore.Store
	clock    *fakeClock
	notifier *MockNotifier
	storage  *MockStorage
	cfg      *config.Config

	search        *searchService
	enquiries     *enquiryService
	providers     *providerService
	subscriptions *subscriptionService
	users         *userService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memstore.New()
	clock := &fakeClock{t: fixedNow}
	notifier := new(MockNotifier)
	objects := new(MockStorage)
	cfg := &config.Config{
		JwtSecret: "test-secret",
		JwtTTL:    time.Hour,
		FreeQuota: models.DefaultFreeQuota,
	}
	g := gate.New(1)

	env := &testEnv{store: st, clock: clock, notifier: notifier, storage: objects, cfg: cfg}

	env.search = NewSearchService(st, nil).(*searchService)
	env.search.now = clock.Now
	env.enquiries = NewEnquiryService(st, g, notifier).(*enquiryService)
	env.enquiries.now = clock.Now
	env.providers = NewProviderService(st, objects, notifier).(*providerService)
	env.providers.now = clock.Now
	env.subscriptions = NewSubscriptionService(st, g).(*subscriptionService)
	env.subscriptions.now = clock.Now
	env.users = NewUserService(st, cfg, notifier).(*userService)
	env.users.now = clock.Now
	return env
}

// seedTrade stores a verified, active trade user and profile.
func (env *testEnv) seedTrade(t *testing.T, postcode string, radius int, category models.Category) *models.Provider {
	t.Helper()
	ctx := context.Background()
	user := &models.User{
		Base:      models.NewBase(),
		Email:     models.NewBase().ID + "@trade.example.com",
		Name:      "Trade Owner",
		Role:      models.RoleTrade,
		CreatedAt: fixedNow,
	}
	require.NoError(t, env.store.CreateUser(ctx, user))
	p := &models.Provider{
		Base:          models.NewBase(),
		UserID:        user.ID,
		BusinessName:  "Pipe Dreams",
		Description:   "Emergency plumbing across central London",
		Category:      category,
		Postcode:      postcode,
		ServiceRadius: radius,
		Verified:      true,
		Active:        true,
		FreeQuota:     models.DefaultFreeQuota,
		LastActiveAt:  fixedNow,
		CreatedAt:     fixedNow,
	}
	require.NoError(t, env.store.CreateProvider(ctx, p))
	return p
}

func (env *testEnv) provider(t *testing.T, id string) *models.Provider {
	t.Helper()
	p, err := env.store.GetProvider(context.Background(), id)
	require.NoError(t, err)
	return p
}

func validEnquiry() *models.EnquiryRequest {
	return &models.EnquiryRequest{
		ClientName:     "Jane Client",
		ClientEmail:    "jane@example.com",
		ClientPhone:    "07700900123",
		ClientPostcode: "sw1a 2aa",
		JobDescription: "Leaking pipe under the kitchen sink needs fixing",
	}
}
