package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/LewF-Dev/local-help-platform/internal/config"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// IAsynqClient is the subset of *asynq.Client the enqueuer needs.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer turns service notifications into background tasks.
type Enqueuer struct {
	client IAsynqClient
	cfg    *config.Config
}

var _ services.Notifier = (*Enqueuer)(nil)

func NewEnqueuer(client IAsynqClient, cfg *config.Config) *Enqueuer {
	return &Enqueuer{client: client, cfg: cfg}
}

func (e *Enqueuer) dashboardURL() string {
	return strings.TrimRight(e.cfg.AppBaseURL, "/") + "/dashboard"
}

func (e *Enqueuer) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	log.Printf("Enqueued task %s (id=%s, queue=%s)", taskType, info.ID, info.Queue)
	return nil
}

func (e *Enqueuer) sendEmail(ctx context.Context, to, templateID string, data map[string]interface{}, queue string) error {
	data["app_name"] = e.cfg.AppName
	data["dashboard_url"] = e.dashboardURL()
	payload := EmailTaskPayload{
		To:         to,
		TemplateID: templateID,
		Locale:     services.DefaultLocale,
		Data:       data,
	}
	return e.enqueue(ctx, TypeEmailDelivery, payload, asynq.Queue(queue), asynq.MaxRetry(5))
}

// EnquiryReceived emails the enquiry to the provider's owner.
func (e *Enqueuer) EnquiryReceived(ctx context.Context, provider *models.Provider, owner *models.User, enquiry *models.Enquiry) error {
	if owner == nil || owner.Email == "" {
		return fmt.Errorf("provider %s has no owner email", provider.ID)
	}
	tradeName := provider.BusinessName
	if tradeName == "" {
		tradeName = owner.Name
	}
	return e.sendEmail(ctx, owner.Email, services.TemplateNewEnquiry, map[string]interface{}{
		"trade_name":      tradeName,
		"client_name":     enquiry.ClientName,
		"client_email":    enquiry.ClientEmail,
		"client_phone":    enquiry.ClientPhone,
		"client_postcode": enquiry.ClientPostcode,
		"job_description": enquiry.JobDescription,
	}, QueueCritical)
}

// UserRegistered sends the welcome email matching the user's role.
func (e *Enqueuer) UserRegistered(ctx context.Context, user *models.User) error {
	data := map[string]interface{}{"name": user.Name}
	templateID := services.TemplateWelcomeClient
	if user.Role == models.RoleTrade {
		templateID = services.TemplateWelcomeTrade
		data["free_quota"] = e.cfg.FreeQuota
	}
	return e.sendEmail(ctx, user.Email, templateID, data, QueueDefault)
}

// PhotoUploaded schedules resizing of a freshly uploaded photo.
func (e *Enqueuer) PhotoUploaded(ctx context.Context, providerID, key string) error {
	return e.enqueue(ctx, TypeImageProcess, ImageTaskPayload{S3Key: key, ProviderID: providerID},
		asynq.Queue(QueueImages), asynq.MaxRetry(3), asynq.Timeout(2*time.Minute))
}
