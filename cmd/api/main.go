// Command api starts the local DynamoDB-compatible HTTP emulator.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ddblocal/interfaces/http/rest"
	"ddblocal/internal/dispatcher"
	"ddblocal/internal/seed"
	"ddblocal/internal/tablemanager"
	"ddblocal/pkg/config"
	"ddblocal/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	tp, err := observability.NewTracerProvider(ctx, "ddblocal", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to build tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer provider shutdown error", zap.Error(err))
		}
	}()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	srv := dispatcher.New(logger, observability.Tracer(), metrics)

	if cfg.SeedFile != "" {
		if err := srv.Seed(func(m *tablemanager.Manager) error {
			return seed.Load(cfg.SeedFile, m)
		}); err != nil {
			logger.Fatal("failed to apply seed file", zap.Error(err))
		}
	}

	handler := rest.NewRouter(srv, logger)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting dynamodb emulator", zap.String("address", cfg.Addr()), zap.String("environment", cfg.Environment))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	log.Println("server stopped")
}
