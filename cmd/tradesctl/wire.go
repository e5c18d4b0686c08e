package main

import (
	"context"
	"fmt"
	"log"

	"github.com/LewF-Dev/local-help-platform/internal/config"
	"github.com/LewF-Dev/local-help-platform/internal/db"
	"github.com/LewF-Dev/local-help-platform/internal/gate"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
	"github.com/LewF-Dev/local-help-platform/internal/store/mongostore"
)

type templateSaver interface {
	SaveTemplate(ctx context.Context, template *models.EmailTemplate) error
}

type app struct {
	providers     services.IProviderService
	subscriptions services.ISubscriptionService
	users         services.IUserService
	templates     templateSaver
	close         func()
}

type wireFunc func(ctx context.Context) (*app, error)

// wireApp connects to MongoDB. Notifications are not sent from the CLI.
func wireApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load("cli")
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	client, database, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	st := mongostore.New(database, cfg.StoreConflictRetries)
	if err := st.EnsureIndexes(ctx); err != nil {
		_ = db.DisconnectDB(client)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	return &app{
		providers:     services.NewProviderService(st, nil, nil),
		subscriptions: services.NewSubscriptionService(st, gate.New(cfg.SubscriptionPeriodMonths)),
		users:         services.NewUserService(st, cfg, nil),
		templates:     services.NewEmailTemplateService(database),
		close: func() {
			if err := db.DisconnectDB(client); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		},
	}, nil
}
