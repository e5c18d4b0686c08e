package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/LewF-Dev/local-help-platform/internal/matching"
	"github.com/LewF-Dev/local-help-platform/internal/models"
)

const (
	minNameLength           = 2
	minPhoneLength          = 10
	minPostcodeLength       = 5
	minJobDescriptionLength = 20
	minDescriptionLength    = 20
	minServiceRadius        = 1
	maxServiceRadius        = 50
)

func minLength(field, value string, n int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		return invalid(field, "must be at least %d characters", n)
	}
	return nil
}

func validEmail(field, value string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(value))
	if err != nil || addr.Address != strings.TrimSpace(value) {
		return invalid(field, "must be a valid email address")
	}
	return nil
}

func validRadius(field string, radius int) error {
	if radius < minServiceRadius || radius > maxServiceRadius {
		return invalid(field, "must be between %d and %d miles", minServiceRadius, maxServiceRadius)
	}
	return nil
}

func validCategory(field string, c models.Category) (models.Category, error) {
	parsed, err := models.ParseCategory(string(c))
	if err != nil {
		return "", invalid(field, "unknown category %q", c)
	}
	return parsed, nil
}

func validateEnquiryRequest(req *models.EnquiryRequest) error {
	if err := minLength("client_name", req.ClientName, minNameLength); err != nil {
		return err
	}
	if err := validEmail("client_email", req.ClientEmail); err != nil {
		return err
	}
	if err := minLength("client_phone", req.ClientPhone, minPhoneLength); err != nil {
		return err
	}
	if err := minLength("client_postcode", req.ClientPostcode, minPostcodeLength); err != nil {
		return err
	}
	return minLength("job_description", req.JobDescription, minJobDescriptionLength)
}

// validateProfileSubmission checks a new profile and returns it with the
// category and postcode in canonical form.
func validateProfileSubmission(sub *models.ProfileSubmission) (*models.ProfileSubmission, error) {
	if sub == nil {
		return nil, invalid("trade_profile", "is required for TRADE accounts")
	}
	out := *sub
	if err := minLength("business_name", out.BusinessName, minNameLength); err != nil {
		return nil, err
	}
	category, err := validCategory("category", out.Category)
	if err != nil {
		return nil, err
	}
	out.Category = category
	if err := minLength("description", out.Description, minDescriptionLength); err != nil {
		return nil, err
	}
	if err := minLength("postcode", out.Postcode, minPostcodeLength); err != nil {
		return nil, err
	}
	out.Postcode = matching.Normalize(out.Postcode)
	if err := validRadius("service_radius", out.ServiceRadius); err != nil {
		return nil, err
	}
	return &out, nil
}

// validateProviderUpdate checks only the fields that are set.
func validateProviderUpdate(upd *models.ProviderUpdate) error {
	if upd.BusinessName != nil {
		if err := minLength("business_name", *upd.BusinessName, minNameLength); err != nil {
			return err
		}
	}
	if upd.Category != nil {
		category, err := validCategory("category", *upd.Category)
		if err != nil {
			return err
		}
		upd.Category = &category
	}
	if upd.Description != nil {
		if err := minLength("description", *upd.Description, minDescriptionLength); err != nil {
			return err
		}
	}
	if upd.Postcode != nil {
		if err := minLength("postcode", *upd.Postcode, minPostcodeLength); err != nil {
			return err
		}
		normalized := matching.Normalize(*upd.Postcode)
		upd.Postcode = &normalized
	}
	if upd.ServiceRadius != nil {
		if err := validRadius("service_radius", *upd.ServiceRadius); err != nil {
			return err
		}
	}
	return nil
}
