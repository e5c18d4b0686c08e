package db

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// Classifier decides whether a failed attempt is worth repeating.
type Classifier func(err error) bool

const DefaultMaxRetries = 3

// WithRetries runs op once plus up to maxRetries more times while retryable
// reports the failure as transient. Any other error is returned immediately.
func WithRetries(op Operation, maxRetries int, retryable Classifier) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries || !retryable(err) {
			break
		}
		time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond) // Simple incremental backoff
	}
	return err
}

// IsMongoDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
func IsMongoDuplicateKeyError(err error) bool {
	return hasWriteErrorCode(err, 11000)
}

// IsMongoWriteConflict reports a WriteConflict (code 112) or an error labelled
// as a transient transaction failure.
func IsMongoWriteConflict(err error) bool {
	if hasWriteErrorCode(err, 112) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(112) || se.HasErrorLabel("TransientTransactionError")
	}
	return false
}

func hasWriteErrorCode(err error, code int) bool {
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == code {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, writeError := range bwe.WriteErrors {
			if writeError.Code == code {
				return true
			}
		}
	}
	return false
}
