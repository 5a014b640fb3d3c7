package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/manifoldhq/manifold/pkg/config"
	"github.com/manifoldhq/manifold/pkg/httputil"
	"github.com/manifoldhq/manifold/pkg/marketplace"
	"github.com/manifoldhq/manifold/pkg/observability"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Observability.LogLevel)
	structured := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting Manifold plugin marketplace")

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if db != nil {
		defer db.Close()
	} else {
		logger.Warn("Running without a database - listing and submission persistence disabled")
	}

	store, err := marketplace.NewFileSystemStorage(cfg.Storage.Root, cfg.Storage.BaseURL)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Infof("Storage initialized in %s", cfg.Storage.Root)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(nil)
	}

	service, err := marketplace.NewService(db, store, logger, metrics)
	if err != nil {
		logger.Fatalf("Failed to create marketplace service: %v", err)
	}
	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := service.InitSchema(ctx); err != nil {
			cancel()
			logger.Fatalf("Failed to initialize database schema: %v", err)
		}
		cancel()
	}

	router := mux.NewRouter()
	marketplace.NewHandlers(service).RegisterRoutes(router)

	var handler http.Handler = router
	handler = httputil.LoggingMiddleware(structured)(handler)
	handler = httputil.RequestIDMiddleware(handler)
	handler = httputil.RecoveryMiddleware(handler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthServer := newHealthServer(cfg, db, metrics)

	go func() {
		logger.Infof("Health and metrics server listening on :%s", cfg.Server.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Health server error: %v", err)
		}
	}()

	go func() {
		logger.Infof("API server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Received shutdown signal, draining connections...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	if err := healthServer.Shutdown(ctx); err != nil {
		logger.Errorf("Health server shutdown failed: %v", err)
	}
	logger.Info("Shutdown complete")
}

func setupLogger(level observability.LogLevel) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	switch level {
	case observability.DebugLevel:
		logger.SetLevel(logrus.DebugLevel)
	case observability.WarnLevel:
		logger.SetLevel(logrus.WarnLevel)
	case observability.ErrorLevel:
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

// connectDatabase opens the marketplace database. An empty URL is allowed so
// the service can run validation-only without persistence.
func connectDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func newHealthServer(cfg *config.Config, db *sql.DB, metrics *observability.Metrics) *http.Server {
	checker := observability.NewHealthChecker(db)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", checker.Liveness).Methods("GET")
	r.HandleFunc("/readyz", checker.Readiness).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	return &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: r,
	}
}
