// Package lifecycle applies enquiry status changes and the provider counter
// updates they trigger.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

var (
	// ErrForbidden means the caller does not own the provider the enquiry was sent to.
	ErrForbidden = errors.New("enquiry belongs to another provider")
	// ErrInvalidStatus means the requested status is outside the known set.
	ErrInvalidStatus = errors.New("invalid enquiry status")
	// ErrProviderMismatch means the provider passed in is not the one the enquiry references.
	ErrProviderMismatch = errors.New("provider does not match enquiry")
)

// Transition describes what Apply changed.
type Transition struct {
	From            models.EnquiryStatus
	To              models.EnquiryStatus
	FirstResponse   bool
	ResponseMinutes int  // Only meaningful when FirstResponse is set
	CountedAccepted bool // enquiriesAccepted was incremented
}

// Apply moves enquiry to status on behalf of actingProviderID and updates
// provider's counters to match. Both values are modified in place; callers
// persist them together.
//
// The first move out of PENDING is the provider's response: it fixes
// RespondedAt, counts a response and folds the response time into the running
// average. Later moves only touch the provider when entering ACCEPTED, and an
// enquiry contributes at most one acceptance however often it flips. The
// enquiry's Accepted flag records that, which keeps EnquiriesAccepted from
// ever exceeding EnquiriesResponded.
func Apply(enquiry *models.Enquiry, provider *models.Provider, status models.EnquiryStatus, actingProviderID string, now time.Time) (Transition, error) {
	if actingProviderID == "" || enquiry.ProviderID != actingProviderID {
		return Transition{}, ErrForbidden
	}
	if provider.ID != enquiry.ProviderID {
		return Transition{}, fmt.Errorf("%w: enquiry %s references %s, got %s", ErrProviderMismatch, enquiry.ID, enquiry.ProviderID, provider.ID)
	}
	if !status.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	tr := Transition{From: enquiry.Status, To: status}

	switch {
	case enquiry.RespondedAt == nil && status != models.EnquiryStatusPending:
		minutes := int(now.Sub(enquiry.CreatedAt) / time.Minute)
		if minutes < 0 {
			minutes = 0
		}
		respondedAt := now
		enquiry.RespondedAt = &respondedAt

		oldCount := provider.EnquiriesResponded
		oldAvg := 0
		if provider.AverageResponseTimeMinutes != nil {
			oldAvg = *provider.AverageResponseTimeMinutes
		}
		provider.EnquiriesResponded = oldCount + 1
		avg := (oldAvg*oldCount + minutes) / provider.EnquiriesResponded
		provider.AverageResponseTimeMinutes = &avg
		if status == models.EnquiryStatusAccepted {
			provider.EnquiriesAccepted++
			enquiry.Accepted = true
			tr.CountedAccepted = true
		}
		provider.LastActiveAt = now

		tr.FirstResponse = true
		tr.ResponseMinutes = minutes

	case enquiry.RespondedAt != nil && status == models.EnquiryStatusAccepted && enquiry.Status != models.EnquiryStatusAccepted:
		if !enquiry.Accepted {
			provider.EnquiriesAccepted++
			enquiry.Accepted = true
			tr.CountedAccepted = true
		}
		provider.LastActiveAt = now
	}

	enquiry.Status = status
	enquiry.UpdatedAt = now
	return tr, nil
}
