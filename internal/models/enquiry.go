package models

import (
	"fmt"
	"strings"
	"time"
)

// EnquiryStatus is the lifecycle state of an enquiry.
type EnquiryStatus string

const (
	EnquiryStatusPending   EnquiryStatus = "PENDING"
	EnquiryStatusAccepted  EnquiryStatus = "ACCEPTED"
	EnquiryStatusDeclined  EnquiryStatus = "DECLINED"
	EnquiryStatusContacted EnquiryStatus = "CONTACTED"
)

func (s EnquiryStatus) Valid() bool {
	switch s {
	case EnquiryStatusPending, EnquiryStatusAccepted, EnquiryStatusDeclined, EnquiryStatusContacted:
		return true
	}
	return false
}

func ParseEnquiryStatus(s string) (EnquiryStatus, error) {
	status := EnquiryStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown enquiry status %q", s)
	}
	return status, nil
}

// Enquiry is a client's request for work sent to a single provider. Enquiries are never deleted.
type Enquiry struct {
	Base           `bson:",inline"`
	ProviderID     string        `bson:"provider_id" json:"provider_id"`
	ClientID       string        `bson:"client_id" json:"client_id"`
	ClientName     string        `bson:"client_name" json:"client_name"`
	ClientEmail    string        `bson:"client_email" json:"client_email"`
	ClientPhone    string        `bson:"client_phone" json:"client_phone"`
	ClientPostcode string        `bson:"client_postcode" json:"client_postcode"` // Normalized
	JobDescription string        `bson:"job_description" json:"job_description"`
	Status         EnquiryStatus `bson:"status" json:"status"`
	RespondedAt    *time.Time    `bson:"responded_at,omitempty" json:"responded_at,omitempty"` // Set once, on first response
	Accepted       bool          `bson:"acceptance_counted" json:"-"`                          // Already counted towards the provider's enquiriesAccepted
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

func (e *Enquiry) Clone() *Enquiry {
	if e == nil {
		return nil
	}
	c := *e
	if e.RespondedAt != nil {
		t := *e.RespondedAt
		c.RespondedAt = &t
	}
	return &c
}

// EnquiryRequest is what a client submits.
type EnquiryRequest struct {
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	ClientPhone    string `json:"client_phone"`
	ClientPostcode string `json:"client_postcode"`
	JobDescription string `json:"job_description"`
}
