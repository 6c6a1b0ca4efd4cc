package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fundboard/internal/cli"
	apphttp "fundboard/internal/http"
	"fundboard/internal/investors"
	applog "fundboard/internal/log"
	"fundboard/internal/metrics"
	"fundboard/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	// The dataset is read once; a source that cannot be read is fatal.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	ds, err := cli.LoadDataset(loadCtx, logger, cfg)
	loadCancel()
	if err != nil {
		logger.Error("Failed to load dataset", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	match, err := investors.ParseMatchMode(cfg.InvestorMatch)
	if err != nil {
		logger.Error("Invalid investor match mode", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	appLogger := applog.FromSlog(logger)
	opts := []services.Option{
		services.WithMetrics(m),
		services.WithLogger(appLogger.WithComponent(applog.ComponentQuery)),
		services.WithDefaultMatch(match),
	}

	// Query events are optional; without a broker queries are only logged.
	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient != nil {
		opts = append(opts, services.WithPublisher(amqpClient))
	}

	svc := services.NewQueryService(ds, opts...)
	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Config{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Metrics:   m,
		Logger:    appLogger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
	})

	logger.Info("Starting fundboard server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"records", ds.Len(),
		"investor_match", string(match),
		"query_events", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
