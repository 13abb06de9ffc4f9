package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marco/workyard/internal/api"
	"github.com/marco/workyard/internal/config"
	"github.com/marco/workyard/internal/domain"
	"github.com/marco/workyard/internal/logger"
	"github.com/marco/workyard/internal/render"
	"github.com/marco/workyard/internal/report"
	"github.com/marco/workyard/internal/repository"
	"github.com/marco/workyard/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(logger.DefaultConfig())
	logger.SetDefault(appLogger)

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	jobRepo := repository.NewReportJobRepository(db)
	domainRepo := repository.NewDomainRepository(db)

	// Initialize artifact storage (supports S3, R2, local disk)
	artifacts, err := storage.NewStorage(&storage.S3Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		LocalDir:  cfg.Storage.LocalDir,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize artifact storage")
	}

	ctx := context.Background()
	if err := artifacts.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure artifact bucket")
	}

	// Assemble the report engine
	aggregator := report.NewAggregator(domainRepo)
	renderers := map[domain.ReportFormat]report.Renderer{
		domain.FormatDocument:    render.NewPDFRenderer(),
		domain.FormatSpreadsheet: render.NewXLSXRenderer(),
	}

	executor := report.NewExecutor(jobRepo, aggregator, renderers, artifacts, appLogger, report.ExecutorConfig{
		Workers:    cfg.Reports.Workers,
		QueueSize:  cfg.Reports.QueueSize,
		Timeout:    cfg.Reports.GenerationTimeout,
		StaleAfter: cfg.Reports.StaleAfter,
		SweepEvery: cfg.Reports.SweepInterval,
	})
	scheduler := report.NewScheduler(jobRepo, executor, appLogger)
	reportService := report.NewService(jobRepo, domainRepo, executor, scheduler, artifacts, appLogger)

	executor.Start(ctx)

	// Cron timers are in-memory; rebuild them from SCHEDULED rows before
	// starting the timer loop so recurring reports survive restarts.
	if err := scheduler.Restore(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to restore report schedules")
	}
	scheduler.Start()

	// Setup router
	router := api.SetupRouter(cfg, reportService)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	// Stop background work after the HTTP surface is closed so nothing new
	// can be enqueued while the executor drains.
	scheduler.Stop()
	executor.Stop()

	appLogger.Info("Server exited")
}
