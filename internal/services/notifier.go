package services

import (
	"context"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

// Notifier hands side effects to the background workers. Calls happen after
// the core write has committed; a failing Notifier never undoes that write.
type Notifier interface {
	EnquiryReceived(ctx context.Context, provider *models.Provider, owner *models.User, enquiry *models.Enquiry) error
	UserRegistered(ctx context.Context, user *models.User) error
	PhotoUploaded(ctx context.Context, providerID, key string) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) EnquiryReceived(context.Context, *models.Provider, *models.User, *models.Enquiry) error {
	return nil
}

func (NopNotifier) UserRegistered(context.Context, *models.User) error { return nil }

func (NopNotifier) PhotoUploaded(context.Context, string, string) error { return nil }
