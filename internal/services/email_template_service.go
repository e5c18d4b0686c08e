package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

// Template IDs used by the background email tasks.
const (
	TemplateNewEnquiry    = "new_enquiry"
	TemplateWelcomeTrade  = "welcome_trade"
	TemplateWelcomeClient = "welcome_client"

	DefaultLocale = "en-GB"
)

// Default email templates used as fallback when not found in database
var defaultEmailTemplates = map[string]models.EmailTemplate{
	TemplateNewEnquiry: {
		TemplateID: TemplateNewEnquiry,
		Locale:     DefaultLocale,
		Subject:    "New Job Enquiry - {{.app_name}}",
		Body: `Hi {{.trade_name}},

You have received a new job enquiry through {{.app_name}}.

Client details
  Name:     {{.client_name}}
  Email:    {{.client_email}}
  Phone:    {{.client_phone}}
  Postcode: {{.client_postcode}}

Job description
{{.job_description}}

Log in to your dashboard to respond to this enquiry: {{.dashboard_url}}
`,
	},
	TemplateWelcomeTrade: {
		TemplateID: TemplateWelcomeTrade,
		Locale:     DefaultLocale,
		Subject:    "Welcome to {{.app_name}}",
		Body: `Hi {{.name}},

Thank you for joining {{.app_name}} as a trade professional.

Once an administrator has verified your profile it will appear in searches.
Your first {{.free_quota}} enquiries are free. After that, subscribe to keep receiving enquiries.
Respond to enquiries through your dashboard to build your reliability score.

{{.dashboard_url}}
`,
	},
	TemplateWelcomeClient: {
		TemplateID: TemplateWelcomeClient,
		Locale:     DefaultLocale,
		Subject:    "Welcome to {{.app_name}}",
		Body: `Hi {{.name}},

Thank you for joining {{.app_name}}.

You can now search for verified local trades in your area. Enter your postcode and the type of work you need.

{{.dashboard_url}}
`,
	},
}

// IEmailTemplateService defines the interface for email template operations.
type IEmailTemplateService interface {
	GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error)
}

const emailTemplatesCollection = "email_templates"

// EmailTemplateService handles operations related to email templates
type EmailTemplateService struct {
	db *mongo.Database
}

// NewEmailTemplateService creates a new instance of EmailTemplateService.
// A nil database serves the built-in templates only.
func NewEmailTemplateService(db *mongo.Database) *EmailTemplateService {
	return &EmailTemplateService{
		db: db,
	}
}

// GetTemplate retrieves an email template by ID and locale
func (s *EmailTemplateService) GetTemplate(ctx context.Context, templateID string, locale string) (*models.EmailTemplate, error) {
	if s.db == nil {
		return defaultTemplate(templateID, locale)
	}

	filter := bson.M{
		"template_id": templateID,
		"locale":      locale,
	}

	var template models.EmailTemplate
	err := s.db.Collection(emailTemplatesCollection).FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return defaultTemplate(templateID, locale)
		}
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}

	return &template, nil
}

func defaultTemplate(templateID, locale string) (*models.EmailTemplate, error) {
	if t, ok := defaultEmailTemplates[templateID]; ok {
		return &t, nil
	}
	return nil, fmt.Errorf("template not found: %s (locale: %s)", templateID, locale)
}

// SaveTemplate saves an email template to the database
func (s *EmailTemplateService) SaveTemplate(ctx context.Context, template *models.EmailTemplate) error {
	if s.db == nil {
		return errors.New("email templates are read-only without a database")
	}
	filter := bson.M{
		"template_id": template.TemplateID,
		"locale":      template.Locale,
	}

	update := bson.M{"$set": template}
	opts := options.Update().SetUpsert(true)

	if _, err := s.db.Collection(emailTemplatesCollection).UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error saving template: %w", err)
	}

	return nil
}
