package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensewise/internal/backend"
	"expensewise/internal/backup"
	"expensewise/internal/config"
	applog "expensewise/internal/log"
	"expensewise/internal/records"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New("backup-worker", applog.ParseLevel(cfg.LogLevel))
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := backend.Open(cfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	categories := records.NewCategoryService(store, cfg.DeviceUserID, nil)
	expenses := records.NewExpenseService(store, categories, cfg.DeviceUserID, nil)
	budgets := records.NewBudgetService(store, cfg.DeviceUserID, nil)
	settings := records.NewSettingsService(store)

	target, err := resolveTarget(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backup target", "error", err)
		os.Exit(1)
	}

	worker := backup.NewWorker(categories, expenses, budgets, settings, target,
		backup.Gate{Debounce: cfg.BackupDebounce}, logger)

	queue, err := backup.NewQueue(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP queue", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	// Catch up anything that was queued while the worker was down.
	if err := worker.HandleJob(ctx, backup.NewJob("startup")); err != nil {
		logger.Warn("Startup backup check failed", "error", err)
	}

	logger.Info("Consuming backup jobs", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	err = queue.Consume(ctx, func(job *backup.Job) error {
		return worker.HandleJob(ctx, job)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Job consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// resolveTarget picks the snapshot sink: the remote backend when configured,
// otherwise a spreadsheet export.
func resolveTarget(ctx context.Context, cfg *config.Config, logger *applog.Logger) (backup.Target, error) {
	if cfg.RemoteBaseURL != "" {
		logger.Info("Using remote backup target", "base_url", cfg.RemoteBaseURL)
		return backup.NewClient(cfg.RemoteBaseURL, 30*time.Second), nil
	}
	if cfg.SpreadsheetID != "" {
		logger.Info("Using spreadsheet backup target", "spreadsheet_id", cfg.SpreadsheetID, "sheet", cfg.SpreadsheetSheet)
		return backup.NewSheetsTarget(ctx, cfg.ServiceAccountFile, cfg.SpreadsheetID, cfg.SpreadsheetSheet)
	}
	return nil, errors.New("no backup target configured: set REMOTE_BASE_URL or SPREADSHEET_ID")
}
