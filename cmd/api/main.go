package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vinhtqfx07044/laptop/docs"
	"github.com/vinhtqfx07044/laptop/internal/auth"
	"github.com/vinhtqfx07044/laptop/internal/clock"
	"github.com/vinhtqfx07044/laptop/internal/config"
	"github.com/vinhtqfx07044/laptop/internal/database"
	"github.com/vinhtqfx07044/laptop/internal/http/handler"
	"github.com/vinhtqfx07044/laptop/internal/http/middleware"
	"github.com/vinhtqfx07044/laptop/internal/http/router"
	"github.com/vinhtqfx07044/laptop/internal/jobs"
	"github.com/vinhtqfx07044/laptop/internal/logger"
	"github.com/vinhtqfx07044/laptop/internal/mailer"
	"github.com/vinhtqfx07044/laptop/internal/repository"
	"github.com/vinhtqfx07044/laptop/internal/service"
	"github.com/vinhtqfx07044/laptop/internal/storage"
)

// @title Laptop Repair API
// @version 1.0
// @description REST API for managing laptop repair requests and the service catalog

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	imageStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Outbound mail
	sender := mailer.NewSender(&cfg.Mail, log)
	mail := mailer.NewMailer(&cfg.Mail, &cfg.App, sender, log)

	// Auth
	tokens := auth.NewTokenService(&cfg.Auth, cfg.App.Name)
	authMiddleware := auth.NewMiddleware(tokens, log)

	appClock := clock.NewSystemClock(cfg.App.Timezone)

	// Initialize repositories
	requestRepo := repository.NewRequestRepository(db)
	serviceItemRepo := repository.NewServiceItemRepository(db)

	// Initialize services
	catalogValidator := service.NewCatalogValidator(serviceItemRepo)
	historyService := service.NewHistoryService(appClock)
	imageService := service.NewImageService(imageStorage, &cfg.Upload, log)
	requestService := service.NewRequestService(
		requestRepo,
		catalogValidator,
		historyService,
		imageService,
		mail,
		&auth.ContextActor{},
		appClock,
		log,
		db,
	)
	serviceItemService := service.NewServiceItemService(serviceItemRepo, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(&cfg.Auth, tokens, log)
	requestHandler := handler.NewRequestHandler(requestService, imageService, log)
	serviceItemHandler := handler.NewServiceItemHandler(serviceItemService, log)
	publicHandler := handler.NewPublicHandler(requestService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		requestHandler,
		serviceItemHandler,
		publicHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.ImageSweepEnabled {
		scheduler = jobs.NewScheduler(log)
		sweep := jobs.NewImageSweepJob(requestRepo, imageStorage, log, 10*time.Minute)
		if err := scheduler.AddJob(jobs.ImageSweepJobName, cfg.Jobs.ImageSweepSchedule, sweep.Run); err != nil {
			log.Error("Failed to register image sweep job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with image sweep job",
				zap.String("cron_expr", cfg.Jobs.ImageSweepSchedule),
			)
		}
	} else {
		log.Info("Image sweep disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Drain queued notification emails
		mail.Stop(10 * time.Second)

		log.Info("Server stopped gracefully")
	}

	return nil
}
