// Package store defines the persistence contract the services depend on.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a concurrent writer changed a document between read and write.
	ErrConflict = errors.New("concurrent modification")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate key")
)

// ProviderMutator changes a provider in place. It may run more than once when
// the store retries after a conflict, so it must only depend on its argument.
// Returning an error aborts the update and leaves the stored provider as it was.
type ProviderMutator func(p *models.Provider) error

// EnquiryMutator is the enquiry counterpart of ProviderMutator.
type EnquiryMutator func(e *models.Enquiry) error

// Store is implemented by mongostore (production) and memstore (tests, local runs).
type Store interface {
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	GetProviderByUserID(ctx context.Context, userID string) (*models.Provider, error)
	// FindListedProviders returns active, verified providers whose postcode starts
	// with area or equals postcode, newest first. A nil category matches all.
	FindListedProviders(ctx context.Context, area, postcode string, category *models.Category) ([]models.Provider, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
	// ListLapsedSubscriptions returns providers with an active subscription that ended before now.
	ListLapsedSubscriptions(ctx context.Context, now time.Time) ([]models.Provider, error)
	CreateProvider(ctx context.Context, p *models.Provider) error
	// UpdateProvider applies fn as one atomic read-modify-write and returns the stored result.
	UpdateProvider(ctx context.Context, id string, fn ProviderMutator) (*models.Provider, error)

	GetEnquiry(ctx context.Context, id string) (*models.Enquiry, error)
	CreateEnquiry(ctx context.Context, e *models.Enquiry) error
	UpdateEnquiry(ctx context.Context, id string, fn EnquiryMutator) (*models.Enquiry, error)
	ListEnquiriesByProvider(ctx context.Context, providerID string) ([]models.Enquiry, error)
	ListEnquiriesByClient(ctx context.Context, clientID string) ([]models.Enquiry, error)

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// RunInTransaction runs fn so that every write it makes through the ctx it
	// receives commits together or not at all.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
