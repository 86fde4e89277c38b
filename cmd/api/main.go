package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"railmap/application/services"
	domainservices "railmap/domain/services"
	"railmap/infrastructure/config"
	"railmap/infrastructure/observability"
	"railmap/infrastructure/persistence/file"
	"railmap/interfaces/http/rest"
	"railmap/interfaces/http/rest/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Metrics are optional; the service and router take nil when disabled.
	var collector *observability.Collector
	var metricsHandler http.Handler
	var observer middleware.RequestObserver
	var cacheMetrics domainservices.CacheMetrics
	var operationMetrics services.OperationMetrics
	if cfg.EnableMetrics {
		collector = observability.NewCollector()
		metricsHandler = collector.Handler()
		observer = collector
		cacheMetrics = collector
		operationMetrics = collector
	}

	store := file.NewStore(cfg.DataFile)
	estimator := domainservices.NewEstimator(cacheMetrics)
	service := services.NewRouteService(store, estimator, cfg.HistoryLimit, cfg.SeedDefault, logger, operationMetrics)

	router := rest.NewRouter(service, cfg, logger, metricsHandler, observer)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("dataFile", cfg.DataFile),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	// Persist the final state so a restart picks up where we left off.
	if err := service.Save(); err != nil {
		logger.Error("Failed to save network on shutdown", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

// newLogger builds the zap logger for the configured environment
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}
	return zapCfg.Build()
}
