package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/dragontuck/unionhall-compliance-sub000/internal/client"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/config"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/database"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/engine"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/handler"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/logger"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/middleware"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/repository"
	"github.com/dragontuck/unionhall-compliance-sub000/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Environment: cfg.Service.Environment,
		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
	})

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("environment", cfg.Service.Environment).
		Msg("Starting Compliance Runs Service")

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		Database:    cfg.Database.Database,
		SSLMode:     cfg.Database.SSLMode,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		MaxConnTime: cfg.Database.MaxConnTime,
		MaxIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize repositories
	modeRepo := repository.NewModeRepository(db)
	hireRepo := repository.NewHireRepository(db)
	runRepo := repository.NewRunRepository(db)
	store := repository.NewComplianceStore(db, modeRepo, hireRepo, runRepo)

	// Initialize NATS publisher (optional)
	var publisher engine.EventPublisher
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.Service.Name))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer nc.Drain()
		publisher = client.NewRunEventPublisher(nc, log.Logger)
		log.Info().Str("nats_url", cfg.NATS.URL).Msg("NATS publisher initialized")
	}

	// Initialize engine and services
	orchestrator := engine.NewOrchestrator(store, publisher, log)
	reportService := service.NewReportService(runRepo, log)

	// Setup HTTP routes
	httpHandler := handler.NewHTTPHandler(orchestrator, reportService, log)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Run routes
	mux.HandleFunc("/api/v1/runs", httpHandler.ExecuteRun)
	mux.HandleFunc("/api/v1/runs/get", httpHandler.GetRun)
	mux.HandleFunc("/api/v1/runs/ledger", httpHandler.GetLedger)
	mux.HandleFunc("/api/v1/runs/summary", httpHandler.GetSummary)

	// Apply middleware
	var h http.Handler = mux
	h = middleware.RequestID(h)
	h = middleware.Logger(&log.Logger)(h)
	h = middleware.Recovery(&log.Logger)(h)
	h = middleware.Timeout(cfg.Database.RunTimeout)(h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
