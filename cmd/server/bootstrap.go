package main

import (
	"github.com/aadilm/taskboard/backend/internal/config"
	"github.com/aadilm/taskboard/backend/internal/handlers"
	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/internal/services"
	"github.com/aadilm/taskboard/backend/internal/utils"
	"github.com/aadilm/taskboard/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg         *config.Config
	notifyQueue services.NotifyQueue
	worker      *services.Worker
	cleanup     *services.CleanupScheduler
	authHandler *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, queues, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Retention schedulers (system logs, soft-deleted project purge)
	cleanup := services.NewCleanupScheduler(models.GetDB())
	if err := cleanup.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start cleanup scheduler")
	}

	// Notification delivery queue (uses Redis if enabled, otherwise sync mode)
	emailService := services.NewEmailService(models.GetDB())
	notifyQueue := services.InitNotifyQueue(cfg)
	if syncQueue, ok := notifyQueue.(*services.SyncNotifyQueue); ok {
		syncQueue.SetProcessor(emailService.DeliverNotification)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(emailService.DeliverNotification)
			worker.Start()
		}
	}

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:         cfg,
		notifyQueue: notifyQueue,
		worker:      worker,
		cleanup:     cleanup,
		authHandler: authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.cleanup != nil {
		s.cleanup.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.notifyQueue != nil {
		s.notifyQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}
