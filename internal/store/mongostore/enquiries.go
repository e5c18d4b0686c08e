package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

func (s *Store) GetEnquiry(ctx context.Context, id string) (*models.Enquiry, error) {
	e, err := findOne[models.Enquiry](ctx, s.db.Collection(enquiriesCollection), bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("error finding enquiry %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) CreateEnquiry(ctx context.Context, e *models.Enquiry) error {
	e.GenIDIfEmpty()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	e.UpdatedAt = e.CreatedAt
	if err := insert(ctx, s.db.Collection(enquiriesCollection), e); err != nil {
		return fmt.Errorf("failed to insert enquiry for provider %s: %w", e.ProviderID, err)
	}
	return nil
}

// UpdateEnquiry guards the replace on the previous status and updated_at,
// which every enquiry write changes.
func (s *Store) UpdateEnquiry(ctx context.Context, id string, fn store.EnquiryMutator) (*models.Enquiry, error) {
	coll := s.db.Collection(enquiriesCollection)
	var updated *models.Enquiry

	operation := func() error {
		current, err := findOne[models.Enquiry](ctx, coll, bson.M{"_id": id})
		if err != nil {
			return err
		}
		next := current.Clone()
		if err := fn(next); err != nil {
			return err
		}
		next.ID = current.ID

		filter := bson.M{"_id": id, "status": current.Status, "updated_at": current.UpdatedAt}
		res, err := coll.ReplaceOne(ctx, filter, next)
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
		return nil, fmt.Errorf("failed to update enquiry %s: %w", id, err)
	}
	return updated, nil
}

func (s *Store) ListEnquiriesByProvider(ctx context.Context, providerID string) ([]models.Enquiry, error) {
	list, err := findMany[models.Enquiry](ctx, s.db.Collection(enquiriesCollection), bson.M{"provider_id": providerID})
	if err != nil {
		return nil, fmt.Errorf("error listing enquiries for provider %s: %w", providerID, err)
	}
	return list, nil
}

func (s *Store) ListEnquiriesByClient(ctx context.Context, clientID string) ([]models.Enquiry, error) {
	list, err := findMany[models.Enquiry](ctx, s.db.Collection(enquiriesCollection), bson.M{"client_id": clientID})
	if err != nil {
		return nil, fmt.Errorf("error listing enquiries for client %s: %w", clientID, err)
	}
	return list, nil
}
