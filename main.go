package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/LewF-Dev/local-help-platform/internal/api"
	"github.com/LewF-Dev/local-help-platform/internal/cache"
	"github.com/LewF-Dev/local-help-platform/internal/config"
	"github.com/LewF-Dev/local-help-platform/internal/db"
	"github.com/LewF-Dev/local-help-platform/internal/email"
	"github.com/LewF-Dev/local-help-platform/internal/gate"
	"github.com/LewF-Dev/local-help-platform/internal/services"
	"github.com/LewF-Dev/local-help-platform/internal/storage"
	"github.com/LewF-Dev/local-help-platform/internal/store/mongostore"
	"github.com/LewF-Dev/local-help-platform/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'img' (image processing), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	st := mongostore.New(mongoDb, cfg.StoreConflictRetries)
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Photo storage is optional; without a bucket photo uploads answer 503.
	var objects storage.IS3Storage
	if cfg.AwsS3Bucket != "" {
		if objects, err = storage.NewS3Storage(ctx, cfg); err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, photo uploads disabled.")
	}

	// Initialize Email Sender
	var primaryEmailSender email.Sender
	if os.Getenv("MOCK_SERVICES") == "true" {
		log.Println("MOCK_SERVICES enabled: Using Redis email sender.")
		primaryEmailSender = email.NewRedisSender(redisClient)
	} else {
		primaryEmailSender = email.NewSMTPSender(cfg)
	}
	compositeSender := email.NewCompositeEmailSender(primaryEmailSender)
	if logEmailsPath := os.Getenv("LOG_EMAILS"); logEmailsPath != "" {
		fileSender, err := email.NewFileEmailSender(logEmailsPath)
		if err != nil {
			log.Printf("WARNING: Failed to initialize file email sender (LOG_EMAILS='%s'): %v. Proceeding without file logging.", logEmailsPath, err)
		} else {
			compositeSender.AddSender(fileSender)
			log.Printf("LOG_EMAILS set, emails are also written to %s", logEmailsPath)
		}
	}

	// Task client; the enqueuer is how services notify the workers.
	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()
	notifier := tasks.NewEnqueuer(taskClient, cfg)

	// Initialize Services
	g := gate.New(cfg.SubscriptionPeriodMonths)
	userService := services.NewUserService(st, cfg, notifier)
	providerService := services.NewProviderService(st, objects, notifier)
	subscriptionService := services.NewSubscriptionService(st, g)
	enquiryService := services.NewEnquiryService(st, g, notifier)
	searchService := services.NewSearchService(st, nil)
	emailTemplateService := services.NewEmailTemplateService(mongoDb)

	taskProcessor := tasks.NewTaskProcessor(cfg, compositeSender, objects, providerService, subscriptionService, emailTemplateService)

	var wg sync.WaitGroup
	shutdownChan := make(chan struct{}, 1)

	// Start Service API (always runs)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(cfg, redisClient, shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Printf("Service API listening on :%s\n", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
		fmt.Println("Service API server stopped.")
	}()

	// --- Mode-specific servers ---
	var mainApiSrv *http.Server
	var taskSrv *asynq.Server
	var scheduler *asynq.Scheduler

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		mainApiSrv = &http.Server{
			Addr: ":" + cfg.ApiPort,
			Handler: api.SetupRouter(ctx, cfg, api.Services{
				Users:         userService,
				Search:        searchService,
				Enquiries:     enquiryService,
				Providers:     providerService,
				Subscriptions: subscriptionService,
			}),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			fmt.Println("Main API server stopped.")
		}()
	}

	workerMode := func(isImageWorker, isBgWorker bool) {
		srv, mux := tasks.SetupServer(redisClient, taskProcessor, isImageWorker, isBgWorker)
		if srv == nil {
			return
		}
		taskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Println("Task server starting...")
			if err := srv.Run(mux); err != nil {
				log.Fatalf("Task server error: %v", err)
			}
			fmt.Println("Task server stopped.")
		}()

		if isBgWorker {
			scheduler, err = tasks.SetupScheduler(redisClient, cfg.SubscriptionSweepCron)
			if err != nil {
				log.Fatalf("Failed to set up scheduler: %v", err)
			}
			if err := scheduler.Start(); err != nil {
				log.Fatalf("Failed to start scheduler: %v", err)
			}
		}
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		workerMode(false, true)
	case "img":
		workerMode(true, false)
	case "all":
		apiMode()
		workerMode(true, true)
	default:
		log.Fatalf("Invalid run mode specified in config: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)
	case <-shutdownChan:
		fmt.Println("\nShutdown requested via Service API. Shutting down gracefully...")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Service API server shutdown error: %v", err)
	}
	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}
	if scheduler != nil {
		fmt.Println("Shutting down scheduler...")
		scheduler.Shutdown()
	}
	if taskSrv != nil {
		fmt.Println("Shutting down task server...")
		taskSrv.Shutdown()
	}
	cancel()

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
