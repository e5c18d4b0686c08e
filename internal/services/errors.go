package services

import (
	"errors"
	"fmt"

	"github.com/LewF-Dev/local-help-platform/internal/gate"
	"github.com/LewF-Dev/local-help-platform/internal/lifecycle"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

var (
	// ErrNotFound is returned when a referenced provider, enquiry or user does not exist.
	ErrNotFound = store.ErrNotFound
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = lifecycle.ErrForbidden
	// ErrGateRejected is returned when an enquiry targets a provider that is not accepting work.
	ErrGateRejected = gate.ErrNotAccepting
	// ErrEmailExists is returned when an attempt is made to use an email that already exists.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Authenticate for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrProfileExists is returned when a TRADE user already owns a profile.
	ErrProfileExists = errors.New("trade profile already exists")
)

// ValidationError reports a rejected input field. Nothing is written when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
