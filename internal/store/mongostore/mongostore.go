// Package mongostore implements store.Store on MongoDB.
//
// Provider and enquiry updates are optimistic: the document is read, mutated
// in memory and replaced with a filter on its version, and the whole cycle is
// retried a bounded number of times when another writer got there first.
// Multi-document units run inside a session transaction, which needs a
// replica set.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LewF-Dev/local-help-platform/internal/db"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

const (
	providersCollection = "providers"
	enquiriesCollection = "enquiries"
	usersCollection     = "users"
)

// Store is the MongoDB-backed store.
type Store struct {
	db         *mongo.Database
	maxRetries int
	now        func() time.Time
}

var _ store.Store = (*Store)(nil)

// New wraps database. maxRetries bounds how often a conflicting update is retried.
func New(database *mongo.Database, maxRetries int) *Store {
	if maxRetries < 0 {
		maxRetries = db.DefaultMaxRetries
	}
	return &Store{db: database, maxRetries: maxRetries, now: time.Now}
}

// isRetryable classifies optimistic-concurrency failures.
func isRetryable(err error) bool {
	return errors.Is(err, store.ErrConflict) || db.IsMongoWriteConflict(err)
}

// retry runs op with the configured retries. Inside a transaction conflicts are
// left to the transaction's own retry loop, since rereading within the same
// snapshot cannot succeed.
func (s *Store) retry(ctx context.Context, op db.Operation) error {
	if mongo.SessionFromContext(ctx) != nil {
		return op()
	}
	return db.WithRetries(op, s.maxRetries, isRetryable)
}

// RunInTransaction runs fn inside a MongoDB session transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}
	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.Background())

	op := func() error {
		_, txErr := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc)
		})
		return txErr
	}
	return db.WithRetries(op, s.maxRetries, isRetryable)
}

// EnsureIndexes creates the indexes queries and uniqueness rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		providersCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "verified", Value: 1}, {Key: "postcode", Value: 1}}},
			{Keys: bson.D{{Key: "subscription_active", Value: 1}, {Key: "subscription_ends_at", Value: 1}}},
		},
		enquiriesCollection: {
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	log.Println("MongoDB indexes ensured.")
	return nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		}
		return err
	}
	return nil
}
