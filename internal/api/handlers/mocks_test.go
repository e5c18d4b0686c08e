package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/reliability"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, reg *models.Registration) (*models.User, *models.Provider, error) {
	args := m.Called(ctx, reg)
	user, _ := args.Get(0).(*models.User)
	provider, _ := args.Get(1).(*models.Provider)
	return user, provider, args.Error(2)
}

func (m *MockUserService) CreateAdmin(ctx context.Context, email, password, name string) (*models.User, error) {
	args := m.Called(ctx, email, password, name)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*services.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*services.Session)
	return session, args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// MockSearchService implements services.ISearchService
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, postcode, category string) ([]services.SearchResult, error) {
	args := m.Called(ctx, postcode, category)
	results, _ := args.Get(0).([]services.SearchResult)
	return results, args.Error(1)
}

// MockEnquiryService implements services.IEnquiryService
type MockEnquiryService struct {
	mock.Mock
}

func (m *MockEnquiryService) SubmitEnquiry(ctx context.Context, clientID, providerID string, req *models.EnquiryRequest) (*models.Enquiry, error) {
	args := m.Called(ctx, clientID, providerID, req)
	e, _ := args.Get(0).(*models.Enquiry)
	return e, args.Error(1)
}

func (m *MockEnquiryService) UpdateEnquiryStatus(ctx context.Context, enquiryID, status, callerProviderID string) (*models.Enquiry, error) {
	args := m.Called(ctx, enquiryID, status, callerProviderID)
	e, _ := args.Get(0).(*models.Enquiry)
	return e, args.Error(1)
}

func (m *MockEnquiryService) ListForProvider(ctx context.Context, providerID string) ([]models.Enquiry, error) {
	args := m.Called(ctx, providerID)
	list, _ := args.Get(0).([]models.Enquiry)
	return list, args.Error(1)
}

func (m *MockEnquiryService) ListForClient(ctx context.Context, clientID string) ([]models.Enquiry, error) {
	args := m.Called(ctx, clientID)
	list, _ := args.Get(0).([]models.Enquiry)
	return list, args.Error(1)
}

// MockProviderService implements services.IProviderService
type MockProviderService struct {
	mock.Mock
}

func (m *MockProviderService) view(args mock.Arguments) (*services.ProviderView, error) {
	v, _ := args.Get(0).(*services.ProviderView)
	return v, args.Error(1)
}

func (m *MockProviderService) provider(args mock.Arguments) (*models.Provider, error) {
	p, _ := args.Get(0).(*models.Provider)
	return p, args.Error(1)
}

func (m *MockProviderService) Get(ctx context.Context, providerID string) (*services.ProviderView, error) {
	return m.view(m.Called(ctx, providerID))
}

func (m *MockProviderService) GetPublic(ctx context.Context, providerID string) (*services.ProviderView, error) {
	return m.view(m.Called(ctx, providerID))
}

func (m *MockProviderService) GetByUser(ctx context.Context, userID string) (*services.ProviderView, error) {
	return m.view(m.Called(ctx, userID))
}

func (m *MockProviderService) ListAll(ctx context.Context) ([]services.ProviderView, error) {
	args := m.Called(ctx)
	views, _ := args.Get(0).([]services.ProviderView)
	return views, args.Error(1)
}

func (m *MockProviderService) Score(ctx context.Context, providerID string) (reliability.Score, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(reliability.Score), args.Error(1)
}

func (m *MockProviderService) UpdateProfile(ctx context.Context, userID string, upd *models.ProviderUpdate) (*models.Provider, error) {
	return m.provider(m.Called(ctx, userID, upd))
}

func (m *MockProviderService) Update(ctx context.Context, providerID string, upd *models.ProviderUpdate) (*models.Provider, error) {
	return m.provider(m.Called(ctx, providerID, upd))
}

func (m *MockProviderService) SetVerified(ctx context.Context, providerID string, verified bool) (*models.Provider, error) {
	return m.provider(m.Called(ctx, providerID, verified))
}

func (m *MockProviderService) RequestPhotoUpload(ctx context.Context, userID, filename, contentType string) (*services.PhotoUpload, error) {
	args := m.Called(ctx, userID, filename, contentType)
	u, _ := args.Get(0).(*services.PhotoUpload)
	return u, args.Error(1)
}

func (m *MockProviderService) ConfirmPhoto(ctx context.Context, userID, key string) error {
	return m.Called(ctx, userID, key).Error(0)
}

func (m *MockProviderService) SetPhotoKey(ctx context.Context, providerID, key string) error {
	return m.Called(ctx, providerID, key).Error(0)
}

// MockSubscriptionService implements services.ISubscriptionService
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Activate(ctx context.Context, providerID string) (*models.Provider, error) {
	args := m.Called(ctx, providerID)
	p, _ := args.Get(0).(*models.Provider)
	return p, args.Error(1)
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, providerID string) (*models.Provider, error) {
	args := m.Called(ctx, providerID)
	p, _ := args.Get(0).(*models.Provider)
	return p, args.Error(1)
}

func (m *MockSubscriptionService) ExpireLapsed(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var (
	_ services.IUserService         = (*MockUserService)(nil)
	_ services.ISearchService       = (*MockSearchService)(nil)
	_ services.IEnquiryService      = (*MockEnquiryService)(nil)
	_ services.IProviderService     = (*MockProviderService)(nil)
	_ services.ISubscriptionService = (*MockSubscriptionService)(nil)
)
