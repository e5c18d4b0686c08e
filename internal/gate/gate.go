// Package gate decides whether a provider may keep receiving enquiries,
// based on verification, the free quota and subscription state.
package gate

import (
	"errors"
	"time"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

// ErrNotAccepting is returned when an enquiry targets a provider that is not active and verified.
var ErrNotAccepting = errors.New("trade is not accepting enquiries")

// Gate applies subscription policy. The zero value bills monthly.
type Gate struct {
	// PeriodMonths is the length of one subscription period. Zero means one month.
	PeriodMonths int
}

// New returns a Gate with the given subscription period in months.
func New(periodMonths int) *Gate {
	return &Gate{PeriodMonths: periodMonths}
}

// CanReceiveEnquiry reports whether p may be sent a new enquiry.
func (g *Gate) CanReceiveEnquiry(p *models.Provider) bool {
	return p.Active && p.Verified
}

// OnEnquiryReceived counts a new enquiry against p and switches p off once the
// free quota is used up without a subscription. It reports whether p was switched off.
func (g *Gate) OnEnquiryReceived(p *models.Provider) bool {
	p.EnquiriesReceived++
	if p.EnquiriesReceived >= p.FreeQuota && !p.SubscriptionActive && p.Active {
		p.Active = false
		return true
	}
	return false
}

// Admit checks p can take an enquiry and, if so, counts it.
func (g *Gate) Admit(p *models.Provider) (deactivated bool, err error) {
	if !g.CanReceiveEnquiry(p) {
		return false, ErrNotAccepting
	}
	return g.OnEnquiryReceived(p), nil
}

// ActivateSubscription starts a subscription period from now. It does not
// switch the provider back on; that takes an explicit profile edit.
func (g *Gate) ActivateSubscription(p *models.Provider, now time.Time) {
	months := g.PeriodMonths
	if months <= 0 {
		months = 1
	}
	ends := now.AddDate(0, months, 0)
	p.SubscriptionActive = true
	p.SubscriptionEndsAt = &ends
}

// CancelSubscription ends the subscription immediately.
func (g *Gate) CancelSubscription(p *models.Provider) {
	p.SubscriptionActive = false
	p.SubscriptionEndsAt = nil
}

// Expired reports whether p holds a subscription whose period has passed.
func (g *Gate) Expired(p *models.Provider, now time.Time) bool {
	return p.SubscriptionActive && p.SubscriptionEndsAt != nil && p.SubscriptionEndsAt.Before(now)
}
