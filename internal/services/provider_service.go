package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/reliability"
	"github.com/LewF-Dev/local-help-platform/internal/storage"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

// ErrStorageUnavailable is returned by photo operations when no object storage is configured.
var ErrStorageUnavailable = errors.New("photo storage is not configured")

// ProviderView is a provider together with its reliability score at read time.
type ProviderView struct {
	models.Provider
	CategoryName     string            `json:"category_name"`
	Reliability      reliability.Score `json:"reliability"`
	ReliabilityBadge string            `json:"reliability_badge"`
}

// PhotoUpload is a presigned upload target for a provider photo.
type PhotoUpload struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IProviderService defines the interface for trade profile operations.
type IProviderService interface {
	Get(ctx context.Context, providerID string) (*ProviderView, error)
	GetPublic(ctx context.Context, providerID string) (*ProviderView, error)
	GetByUser(ctx context.Context, userID string) (*ProviderView, error)
	ListAll(ctx context.Context) ([]ProviderView, error)
	Score(ctx context.Context, providerID string) (reliability.Score, error)
	UpdateProfile(ctx context.Context, userID string, upd *models.ProviderUpdate) (*models.Provider, error)
	Update(ctx context.Context, providerID string, upd *models.ProviderUpdate) (*models.Provider, error)
	SetVerified(ctx context.Context, providerID string, verified bool) (*models.Provider, error)
	RequestPhotoUpload(ctx context.Context, userID, filename, contentType string) (*PhotoUpload, error)
	ConfirmPhoto(ctx context.Context, userID, key string) error
	SetPhotoKey(ctx context.Context, providerID, key string) error
}

type providerService struct {
	store    store.Store
	storage  storage.IS3Storage
	notifier Notifier
	now      func() time.Time
}

// NewProviderService creates a new ProviderService. objects may be nil, which
// disables photo uploads.
func NewProviderService(st store.Store, objects storage.IS3Storage, notifier Notifier) IProviderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &providerService{store: st, storage: objects, notifier: notifier, now: time.Now}
}

func (s *providerService) view(p *models.Provider) *ProviderView {
	score := reliability.ForProvider(p, s.now())
	return &ProviderView{
		Provider:         *p,
		CategoryName:     p.Category.DisplayName(),
		Reliability:      score,
		ReliabilityBadge: reliability.FormatLabel(score.Percentage),
	}
}

func (s *providerService) Get(ctx context.Context, providerID string) (*ProviderView, error) {
	p, err := s.store.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return s.view(p), nil
}

// GetPublic hides providers that have not been verified yet.
func (s *providerService) GetPublic(ctx context.Context, providerID string) (*ProviderView, error) {
	v, err := s.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !v.Verified {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *providerService) GetByUser(ctx context.Context, userID string) (*ProviderView, error) {
	p, err := s.store.GetProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(p), nil
}

func (s *providerService) ListAll(ctx context.Context) ([]ProviderView, error) {
	providers, err := s.store.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	out := make([]ProviderView, 0, len(providers))
	for i := range providers {
		out = append(out, *s.view(&providers[i]))
	}
	return out, nil
}

// Score computes the reliability score of a provider from its current counters.
func (s *providerService) Score(ctx context.Context, providerID string) (reliability.Score, error) {
	p, err := s.store.GetProvider(ctx, providerID)
	if err != nil {
		return reliability.Score{}, err
	}
	return reliability.ForProvider(p, s.now()), nil
}

// UpdateProfile applies an owner's edit to their own profile.
func (s *providerService) UpdateProfile(ctx context.Context, userID string, upd *models.ProviderUpdate) (*models.Provider, error) {
	p, err := s.store.GetProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, p.ID, upd)
}

// Update applies an explicit profile edit. Setting Active is the only way a
// provider switched off by the quota comes back.
func (s *providerService) Update(ctx context.Context, providerID string, upd *models.ProviderUpdate) (*models.Provider, error) {
	if upd == nil {
		return nil, invalid("", "no changes given")
	}
	if err := validateProviderUpdate(upd); err != nil {
		return nil, err
	}
	p, err := s.store.UpdateProvider(ctx, providerID, func(p *models.Provider) error {
		if upd.BusinessName != nil {
			p.BusinessName = strings.TrimSpace(*upd.BusinessName)
		}
		if upd.Category != nil {
			p.Category = *upd.Category
		}
		if upd.Description != nil {
			p.Description = strings.TrimSpace(*upd.Description)
		}
		if upd.Postcode != nil {
			p.Postcode = *upd.Postcode
		}
		if upd.ServiceRadius != nil {
			p.ServiceRadius = *upd.ServiceRadius
		}
		if upd.Active != nil {
			p.Active = *upd.Active
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update provider %s: %w", providerID, err)
	}
	return p, nil
}

func (s *providerService) SetVerified(ctx context.Context, providerID string, verified bool) (*models.Provider, error) {
	p, err := s.store.UpdateProvider(ctx, providerID, func(p *models.Provider) error {
		p.Verified = verified
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set verified=%t on provider %s: %w", verified, providerID, err)
	}
	log.Printf("Provider %s verified=%t", providerID, verified)
	return p, nil
}

// RequestPhotoUpload issues a presigned PUT URL for the caller's profile photo.
func (s *providerService) RequestPhotoUpload(ctx context.Context, userID, filename, contentType string) (*PhotoUpload, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("content_type", "must be an image type")
	}
	if strings.TrimSpace(filename) == "" {
		return nil, invalid("filename", "is required")
	}
	p, err := s.store.GetProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, key, err := s.storage.GeneratePresignedPutURL(ctx, p.ID, filename, contentType)
	if err != nil {
		return nil, err
	}
	return &PhotoUpload{URL: url, Key: key}, nil
}

// ConfirmPhoto queues an uploaded photo for processing. The key is stored on
// the profile once the image has been normalized.
func (s *providerService) ConfirmPhoto(ctx context.Context, userID, key string) error {
	if s.storage == nil {
		return ErrStorageUnavailable
	}
	p, err := s.store.GetProviderByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !storage.OwnsKey(p.ID, key) {
		return invalid("key", "does not belong to this profile")
	}
	if err := s.notifier.PhotoUploaded(ctx, p.ID, key); err != nil {
		return fmt.Errorf("failed to queue photo %s: %w", key, err)
	}
	return nil
}

// SetPhotoKey records a processed photo on the provider.
func (s *providerService) SetPhotoKey(ctx context.Context, providerID, key string) error {
	if !storage.OwnsKey(providerID, key) {
		return invalid("key", "does not belong to provider %s", providerID)
	}
	_, err := s.store.UpdateProvider(ctx, providerID, func(p *models.Provider) error {
		p.PhotoKey = key
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set photo on provider %s: %w", providerID, err)
	}
	return nil
}
