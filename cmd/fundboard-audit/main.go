package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fundboard/internal/cli"
	"fundboard/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting fundboard-audit")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to consume query events")
		os.Exit(1)
	}

	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient == nil {
		os.Exit(1)
	}
	defer amqpClient.Close()

	auditWorker := worker.NewAuditWorker(10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := amqpClient.ConsumeQueryEvents(ctx, auditWorker.HandleQueryEvent)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Query event consumption failed", "error", err)
		}
		cancel()
	}()

	go auditWorker.RunReports(ctx, cfg.AuditReportInterval)

	sigCtx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		cancel()
		// Final report so the tallies of the last interval are not lost.
		auditWorker.Report(context.Background())
	})

	select {
	case <-sigCtx.Done():
		<-done
	case <-ctx.Done():
		logger.Info("Consumer stopped")
		auditWorker.Report(context.Background())
	}
	logger.Info("fundboard-audit stopped")
}
