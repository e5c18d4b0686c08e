package mongostore

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.GenIDIfEmpty()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	if err := insert(ctx, s.db.Collection(usersCollection), u); err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Email, err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := findOne[models.User](ctx, s.db.Collection(usersCollection), bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("error finding user %s: %w", id, err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := findOne[models.User](ctx, s.db.Collection(usersCollection), bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("error finding user by email %s: %w", email, err)
	}
	return u, nil
}
