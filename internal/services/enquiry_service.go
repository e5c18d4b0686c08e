package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/gate"
	"github.com/LewF-Dev/local-help-platform/internal/lifecycle"
	"github.com/LewF-Dev/local-help-platform/internal/matching"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

// IEnquiryService defines the interface for enquiry operations.
type IEnquiryService interface {
	SubmitEnquiry(ctx context.Context, clientID, providerID string, req *models.EnquiryRequest) (*models.Enquiry, error)
	UpdateEnquiryStatus(ctx context.Context, enquiryID, status, callerProviderID string) (*models.Enquiry, error)
	ListForProvider(ctx context.Context, providerID string) ([]models.Enquiry, error)
	ListForClient(ctx context.Context, clientID string) ([]models.Enquiry, error)
}

// enquiryService implements IEnquiryService.
type enquiryService struct {
	store    store.Store
	gate     *gate.Gate
	notifier Notifier
	now      func() time.Time
}

// NewEnquiryService creates a new EnquiryService.
func NewEnquiryService(st store.Store, g *gate.Gate, notifier Notifier) IEnquiryService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &enquiryService{store: st, gate: g, notifier: notifier, now: time.Now}
}

// SubmitEnquiry records an enquiry for providerID and counts it against the
// provider's quota in the same transaction. The provider is switched off when
// the free quota runs out without a subscription.
func (s *enquiryService) SubmitEnquiry(ctx context.Context, clientID, providerID string, req *models.EnquiryRequest) (*models.Enquiry, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, invalid("provider_id", "is required")
	}
	if req == nil {
		return nil, invalid("", "enquiry is required")
	}
	if err := validateEnquiryRequest(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var (
		enquiry     *models.Enquiry
		provider    *models.Provider
		deactivated bool
	)
	err := s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		provider, err = s.store.UpdateProvider(ctx, providerID, func(p *models.Provider) error {
			var admitErr error
			deactivated, admitErr = s.gate.Admit(p)
			return admitErr
		})
		if err != nil {
			return err
		}

		enquiry = &models.Enquiry{
			Base:           models.NewBase(),
			ProviderID:     providerID,
			ClientID:       clientID,
			ClientName:     strings.TrimSpace(req.ClientName),
			ClientEmail:    strings.TrimSpace(req.ClientEmail),
			ClientPhone:    strings.TrimSpace(req.ClientPhone),
			ClientPostcode: matching.Normalize(req.ClientPostcode),
			JobDescription: strings.TrimSpace(req.JobDescription),
			Status:         models.EnquiryStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return s.store.CreateEnquiry(ctx, enquiry)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrGateRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to submit enquiry to provider %s: %w", providerID, err)
	}

	if deactivated {
		log.Printf("Provider %s used its free quota (%d enquiries) and is no longer listed", provider.ID, provider.EnquiriesReceived)
	}
	s.notifyEnquiry(ctx, provider, enquiry)
	return enquiry, nil
}

func (s *enquiryService) notifyEnquiry(ctx context.Context, provider *models.Provider, enquiry *models.Enquiry) {
	owner, err := s.store.GetUser(ctx, provider.UserID)
	if err != nil {
		log.Printf("Skipping enquiry notification for %s: owner %s not loaded: %v", enquiry.ID, provider.UserID, err)
		return
	}
	if err := s.notifier.EnquiryReceived(ctx, provider, owner, enquiry); err != nil {
		log.Printf("Failed to dispatch enquiry notification for %s: %v", enquiry.ID, err)
	}
}

// UpdateEnquiryStatus moves an enquiry to status on behalf of its provider.
// The status write and the provider counters commit together.
func (s *enquiryService) UpdateEnquiryStatus(ctx context.Context, enquiryID, status, callerProviderID string) (*models.Enquiry, error) {
	target, err := models.ParseEnquiryStatus(status)
	if err != nil {
		return nil, invalid("status", "must be one of PENDING, ACCEPTED, DECLINED, CONTACTED")
	}

	now := s.now().UTC()
	var (
		updated *models.Enquiry
		tr      lifecycle.Transition
	)
	err = s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.store.GetEnquiry(ctx, enquiryID)
		if err != nil {
			return err
		}
		if callerProviderID == "" || current.ProviderID != callerProviderID {
			return ErrForbidden
		}

		var next *models.Enquiry
		_, err = s.store.UpdateProvider(ctx, current.ProviderID, func(p *models.Provider) error {
			e := current.Clone()
			applied, err := lifecycle.Apply(e, p, target, callerProviderID, now)
			if err != nil {
				return err
			}
			next, tr = e, applied
			return nil
		})
		if err != nil {
			return err
		}

		updated, err = s.store.UpdateEnquiry(ctx, enquiryID, func(e *models.Enquiry) error {
			if e.Status != current.Status || !e.UpdatedAt.Equal(current.UpdatedAt) {
				return store.ErrConflict
			}
			*e = *next.Clone()
			return nil
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update enquiry %s: %w", enquiryID, err)
	}

	if tr.FirstResponse {
		log.Printf("Provider %s responded to enquiry %s after %d minutes (%s)", updated.ProviderID, updated.ID, tr.ResponseMinutes, tr.To)
	}
	return updated, nil
}

func (s *enquiryService) ListForProvider(ctx context.Context, providerID string) ([]models.Enquiry, error) {
	return s.store.ListEnquiriesByProvider(ctx, providerID)
}

func (s *enquiryService) ListForClient(ctx context.Context, clientID string) ([]models.Enquiry, error) {
	return s.store.ListEnquiriesByClient(ctx, clientID)
}
