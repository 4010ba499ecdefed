package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bryanwahyu/foresight-engine/internal/application"
	"github.com/bryanwahyu/foresight-engine/internal/application/analysis"
	"github.com/bryanwahyu/foresight-engine/internal/config"
	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
	"github.com/bryanwahyu/foresight-engine/internal/infra/ai/provider"
	"github.com/bryanwahyu/foresight-engine/internal/infra/db"
	"github.com/bryanwahyu/foresight-engine/internal/infra/httpserver"
	"github.com/bryanwahyu/foresight-engine/internal/logging"
	"github.com/bryanwahyu/foresight-engine/internal/metrics"
	"github.com/bryanwahyu/foresight-engine/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	sqlDB, store, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver))

	// A missing credential is not fatal: the service boots and /analyze reports it.
	var gen ai.Generator
	switch g, err := provider.New(ctx, cfg.Generation); {
	case errors.Is(err, ai.ErrNotConfigured):
		logger.Warn("generation client not configured", zap.Error(err))
	case err != nil:
		return fmt.Errorf("generation client: %w", err)
	default:
		gen = g
		logger.Info("generation client ready",
			zap.String("provider", cfg.Generation.Provider),
			zap.String("model", cfg.Generation.Model))
	}

	svc := &analysis.Service{
		Generator:   gen,
		Store:       store,
		Clock:       application.SystemClock{},
		Logger:      logger.Named("analysis"),
		CallTimeout: cfg.Generation.Timeout,
	}

	handler := httpserver.NewRouter(httpserver.Options{
		Analysis:       svc,
		ServiceName:    cfg.Server.ServiceName,
		KeyEnv:         cfg.Generation.KeyEnv(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Limiter:        middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate),
		Checkers:       map[string]middleware.HealthChecker{"database": store},
		Logger:         logger.Named("http"),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
