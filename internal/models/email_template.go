package models

// EmailTemplate is a notification template. Stored overrides live in the email_templates collection.
type EmailTemplate struct {
	TemplateID string `bson:"template_id" json:"template_id"` // e.g. "new_enquiry", "welcome_trade"
	Locale     string `bson:"locale" json:"locale"`
	Subject    string `bson:"subject" json:"subject"` // text/template source
	Body       string `bson:"body" json:"body"`       // text/template source
}
