package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

func (s *Store) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	p, err := findOne[models.Provider](ctx, s.db.Collection(providersCollection), bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("error finding provider %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) GetProviderByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	p, err := findOne[models.Provider](ctx, s.db.Collection(providersCollection), bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error finding provider for user %s: %w", userID, err)
	}
	return p, nil
}

func (s *Store) FindListedProviders(ctx context.Context, area, postcode string, category *models.Category) ([]models.Provider, error) {
	filter := bson.M{
		"active":   true,
		"verified": true,
		"$or": bson.A{
			bson.M{"postcode": bson.M{"$regex": "^" + regexp.QuoteMeta(area)}},
			bson.M{"postcode": postcode},
		},
	}
	if category != nil {
		filter["category"] = *category
	}
	providers, err := findMany[models.Provider](ctx, s.db.Collection(providersCollection), filter)
	if err != nil {
		return nil, fmt.Errorf("error searching providers in area %s: %w", area, err)
	}
	return providers, nil
}

func (s *Store) ListProviders(ctx context.Context) ([]models.Provider, error) {
	providers, err := findMany[models.Provider](ctx, s.db.Collection(providersCollection), bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing providers: %w", err)
	}
	return providers, nil
}

func (s *Store) ListLapsedSubscriptions(ctx context.Context, now time.Time) ([]models.Provider, error) {
	filter := bson.M{
		"subscription_active":  true,
		"subscription_ends_at": bson.M{"$lt": now},
	}
	providers, err := findMany[models.Provider](ctx, s.db.Collection(providersCollection), filter)
	if err != nil {
		return nil, fmt.Errorf("error listing lapsed subscriptions: %w", err)
	}
	return providers, nil
}

func (s *Store) CreateProvider(ctx context.Context, p *models.Provider) error {
	p.GenIDIfEmpty()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	p.Version = 1
	if err := insert(ctx, s.db.Collection(providersCollection), p); err != nil {
		return fmt.Errorf("failed to insert provider for user %s: %w", p.UserID, err)
	}
	return nil
}

// UpdateProvider reads the provider, applies fn and writes it back only if the
// version is unchanged. A lost race surfaces as store.ErrConflict and is retried.
func (s *Store) UpdateProvider(ctx context.Context, id string, fn store.ProviderMutator) (*models.Provider, error) {
	coll := s.db.Collection(providersCollection)
	var updated *models.Provider

	operation := func() error {
		current, err := findOne[models.Provider](ctx, coll, bson.M{"_id": id})
		if err != nil {
			return err
		}
		next := current.Clone()
		if err := fn(next); err != nil {
			return err
		}
		next.ID = current.ID
		next.Version = current.Version + 1
		next.UpdatedAt = s.now().UTC()

		res, err := coll.ReplaceOne(ctx, bson.M{"_id": id, "version": current.Version}, next)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return store.ErrConflict
		}
		updated = next
		return nil
	}

	if err := s.retry(ctx, operation); err != nil {
		return nil, fmt.Errorf("failed to update provider %s: %w", id, err)
	}
	return updated, nil
}
