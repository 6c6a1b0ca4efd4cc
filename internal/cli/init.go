// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/fundboard, cmd/fundboard-cli and cmd/fundboard-audit.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fundboard/internal/amqp"
	"fundboard/internal/backend"
	"fundboard/internal/config"
	"fundboard/internal/dataset"
	applog "fundboard/internal/log"
)

// SetupLogger initializes structured logging at the given LOG_LEVEL.
// Unknown levels fall back to info. Returns the configured logger and sets
// it as the default logger.
func SetupLogger(level string) *slog.Logger {
	lvl, err := applog.ParseLevel(level)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenSource creates the dataset source selected by the configuration.
// The caller closes the returned result.
func OpenSource(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
}

// LoadDataset opens the configured source, reads it once and returns the
// normalized dataset. Source errors are returned wrapped; they are fatal.
func LoadDataset(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*dataset.Dataset, error) {
	res, err := OpenSource(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", cfg.DataBackend, err)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Failed to close dataset source", "error", err)
		}
	}()

	ds, err := dataset.Load(ctx, res.Source)
	if err != nil {
		return nil, err
	}
	logger.Info("Dataset loaded", "origin", res.Origin, "records", ds.Len())
	return ds, nil
}

// ConnectAMQP connects to the broker when AMQP_URL is set. It returns nil
// when AMQP is not configured or the broker is unreachable.
func ConnectAMQP(logger *slog.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without query events", "error", err)
		return nil
	}
	logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cleanupDone := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
