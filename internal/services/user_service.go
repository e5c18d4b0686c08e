package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/auth"
	"github.com/LewF-Dev/local-help-platform/internal/config"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

// Session is what a successful login returns.
type Session struct {
	Token      string       `json:"token"`
	User       *models.User `json:"user"`
	ProviderID string       `json:"provider_id,omitempty"`
}

// IUserService defines the interface for user-related operations.
type IUserService interface {
	Register(ctx context.Context, reg *models.Registration) (*models.User, *models.Provider, error)
	CreateAdmin(ctx context.Context, email, password, name string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

// userService implements IUserService.
type userService struct {
	store    store.Store
	cfg      *config.Config
	notifier Notifier
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(st store.Store, cfg *config.Config, notifier Notifier) IUserService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &userService{store: st, cfg: cfg, notifier: notifier, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) validateAccount(email, password, name string) error {
	if err := validEmail("email", email); err != nil {
		return err
	}
	if len(password) < auth.MinPasswordLength {
		return invalid("password", "must be at least %d characters", auth.MinPasswordLength)
	}
	return minLength("name", name, minNameLength)
}

// Register creates a TRADE or CLIENT account. A TRADE account gets its profile
// in the same transaction; the profile starts active and unverified.
func (s *userService) Register(ctx context.Context, reg *models.Registration) (*models.User, *models.Provider, error) {
	if reg == nil {
		return nil, nil, invalid("", "registration is required")
	}
	role, err := models.ParseRole(string(reg.Role))
	if err != nil || role == models.RoleAdmin {
		return nil, nil, invalid("role", "must be TRADE or CLIENT")
	}
	if err := s.validateAccount(reg.Email, reg.Password, reg.Name); err != nil {
		return nil, nil, err
	}
	var profile *models.ProfileSubmission
	if role == models.RoleTrade {
		if profile, err = validateProfileSubmission(reg.Profile); err != nil {
			return nil, nil, err
		}
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		Base:         models.NewBase(),
		Email:        normalizeEmail(reg.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(reg.Name),
		Phone:        strings.TrimSpace(reg.Phone),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var provider *models.Provider
	err = s.store.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrEmailExists
			}
			return err
		}
		if profile == nil {
			return nil
		}
		provider = &models.Provider{
			Base:          models.NewBase(),
			UserID:        user.ID,
			BusinessName:  strings.TrimSpace(profile.BusinessName),
			Description:   strings.TrimSpace(profile.Description),
			Category:      profile.Category,
			Postcode:      profile.Postcode,
			ServiceRadius: profile.ServiceRadius,
			Active:        true,
			FreeQuota:     s.cfg.FreeQuota,
			LastActiveAt:  now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.store.CreateProvider(ctx, provider); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrProfileExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) || errors.Is(err, ErrProfileExists) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to register %s: %w", user.Email, err)
	}

	log.Printf("Registered %s user %s", user.Role, user.ID)
	if err := s.notifier.UserRegistered(ctx, user); err != nil {
		log.Printf("Failed to dispatch welcome email for user %s: %v", user.ID, err)
	}
	return user, provider, nil
}

// CreateAdmin creates an administrator account. Admins cannot self-register.
func (s *userService) CreateAdmin(ctx context.Context, email, password, name string) (*models.User, error) {
	if err := s.validateAccount(email, password, name); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.now().UTC()
	user := &models.User{
		Base:         models.NewBase(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create admin %s: %w", user.Email, err)
	}
	return user, nil
}

// Authenticate checks credentials and issues a JWT. TRADE tokens carry the
// provider id so enquiry updates can be authorized without a lookup.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	providerID := ""
	if user.Role == models.RoleTrade {
		p, err := s.store.GetProviderByUserID(ctx, user.ID)
		switch {
		case err == nil:
			providerID = p.ID
		case !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("failed to load profile for user %s: %w", user.ID, err)
		}
	}

	token, err := auth.GenerateJWT(user.ID, user.Role, providerID, s.cfg.JwtSecret, s.cfg.JwtTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user, ProviderID: providerID}, nil
}

func (s *userService) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}
