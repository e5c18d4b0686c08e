package models

import (
	"time"
)

// DefaultFreeQuota is the number of enquiries a provider may receive before a subscription is needed.
const DefaultFreeQuota = 3

// Provider is a trade's searchable profile. It is owned 1:1 by a TRADE user.
type Provider struct {
	Base                       `bson:",inline"`
	UserID                     string     `bson:"user_id" json:"user_id"`
	BusinessName               string     `bson:"business_name" json:"business_name"`
	Description                string     `bson:"description" json:"description"`
	Category                   Category   `bson:"category" json:"category"`
	Postcode                   string     `bson:"postcode" json:"postcode"`             // Normalized
	ServiceRadius              int        `bson:"service_radius" json:"service_radius"` // Miles, 1-50
	Verified                   bool       `bson:"verified" json:"verified"`
	Active                     bool       `bson:"active" json:"active"`
	SubscriptionActive         bool       `bson:"subscription_active" json:"subscription_active"`
	SubscriptionEndsAt         *time.Time `bson:"subscription_ends_at,omitempty" json:"subscription_ends_at,omitempty"`
	FreeQuota                  int        `bson:"free_quota" json:"free_quota"`
	EnquiriesReceived          int        `bson:"enquiries_received" json:"enquiries_received"`
	EnquiriesResponded         int        `bson:"enquiries_responded" json:"enquiries_responded"`
	EnquiriesAccepted          int        `bson:"enquiries_accepted" json:"enquiries_accepted"`
	AverageResponseTimeMinutes *int       `bson:"average_response_time_minutes,omitempty" json:"average_response_time_minutes,omitempty"`
	LastActiveAt               time.Time  `bson:"last_active_at" json:"last_active_at"`
	PhotoKey                   string     `bson:"photo_key,omitempty" json:"photo_key,omitempty"`
	CreatedAt                  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt                  time.Time  `bson:"updated_at" json:"updated_at"`
	Version                    int64      `bson:"version" json:"-"`
}

// Clone returns a deep copy so callers can mutate it without touching shared state.
func (p *Provider) Clone() *Provider {
	if p == nil {
		return nil
	}
	c := *p
	if p.SubscriptionEndsAt != nil {
		t := *p.SubscriptionEndsAt
		c.SubscriptionEndsAt = &t
	}
	if p.AverageResponseTimeMinutes != nil {
		v := *p.AverageResponseTimeMinutes
		c.AverageResponseTimeMinutes = &v
	}
	return &c
}

// ProviderUpdate holds the owner-editable profile fields. Nil means unchanged.
type ProviderUpdate struct {
	BusinessName  *string   `json:"business_name,omitempty"`
	Category      *Category `json:"category,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Postcode      *string   `json:"postcode,omitempty"`
	ServiceRadius *int      `json:"service_radius,omitempty"`
	Active        *bool     `json:"active,omitempty"`
}
