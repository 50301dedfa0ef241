package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "hoteldesk-panel/internal/api/http"
	"hoteldesk-panel/internal/backend"
	"hoteldesk-panel/internal/config"
	"hoteldesk-panel/internal/jobs"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/metrics"
	"hoteldesk-panel/internal/repository/postgres"
	"hoteldesk-panel/internal/scheduler"
	"hoteldesk-panel/internal/security"
	"hoteldesk-panel/internal/service"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting booking desk panel service...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Backend configuration", "base_url", cfg.Backend.BaseURL, "hotel_id", cfg.Backend.HotelID, "timeout", cfg.BackendTimeout())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	if err := store.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Metrics
	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(cfg.Metrics.Namespace, registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		logger.Info("Metrics enabled", "path", cfg.Metrics.Path)
	}

	// Initialize Backend client and Services
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.HotelID, cfg.Backend.APIToken, cfg.BackendTimeout())

	submissionSvc := service.NewSubmissionService(store.SubmissionRepository, client, service.SubmissionOptions{
		HotelID:     client.HotelID(),
		BatchSize:   cfg.Delivery.BatchSize,
		MaxAttempts: cfg.Delivery.MaxAttempts,
	}, m)

	panels := service.NewPanelManager(service.NewReferenceLoader(client, m), service.PanelDeps{
		HotelID:  client.HotelID(),
		Pricing:  client,
		Entities: client,
		OnSave:   submissionSvc.Submit,
		Metrics:  m,
	})

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.RouterOptions{
		Panels:         httpapi.NewPanelHandler(panels, cfg.PricingWaitTimeout()),
		Submissions:    httpapi.NewSubmissionHandler(submissionSvc),
		Tokens:         tokenManager,
		Metrics:        m,
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: metricsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Initialize Scheduler for outbox delivery and idle panel sweeps
	jobRunner := jobs.NewJobRunner(&jobs.Services{Submissions: submissionSvc, Panels: panels}, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	cronScheduler.Stop()
	panels.CloseAll()
	logger.Info("Booking desk panel service stopped")
}
