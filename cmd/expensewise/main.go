package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensewise/internal/assistant"
	"expensewise/internal/backend"
	"expensewise/internal/backup"
	"expensewise/internal/config"
	apphttp "expensewise/internal/http"
	applog "expensewise/internal/log"
	"expensewise/internal/records"
	"expensewise/internal/schema"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New("expensewise", applog.ParseLevel(cfg.LogLevel))
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
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

	// Bring stored records up to the current schema before serving anything.
	if err := schema.NewSyncer(store, config.Version).Run(ctx); err != nil {
		logger.Error("Schema sync failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Schema sync completed", "app_version", config.Version)

	// Mutations notify the backup queue when one is configured.
	var notifier records.BackupNotifier
	if cfg.AMQPURL != "" {
		queue, err := backup.NewQueue(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP queue, continuing without backup notifications", "error", err)
		} else {
			defer queue.Close()
			notifier = queue
			logger.Info("Initialized AMQP backup queue", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	categories := records.NewCategoryService(store, cfg.DeviceUserID, notifier)
	expenses := records.NewExpenseService(store, categories, cfg.DeviceUserID, notifier)
	budgets := records.NewBudgetService(store, cfg.DeviceUserID, notifier)
	settings := records.NewSettingsService(store)

	var asker apphttp.Asker
	if cfg.AssistantURL != "" {
		asker = assistant.NewClient(cfg.AssistantURL, cfg.AssistantAPIKey, cfg.AssistantModel, 30*time.Second)
		logger.Info("Assistant enabled", "model", cfg.AssistantModel)
	}

	srv := apphttp.NewServer(":"+cfg.Port, categories, expenses, budgets, settings, asker)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "backend", cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Without AMQP there is no worker process, so the API runs the backup
	// scheduler itself against the remote backend.
	if cfg.AMQPURL == "" && cfg.RemoteBaseURL != "" {
		target := backup.NewClient(cfg.RemoteBaseURL, 30*time.Second)
		worker := backup.NewWorker(categories, expenses, budgets, settings, target,
			backup.Gate{Debounce: cfg.BackupDebounce}, logger.WithComponent("backup"))
		g.Go(func() error {
			err := worker.RunScheduler(gctx, cfg.BackupInterval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		logger.Info("In-process backup scheduler enabled", "interval", cfg.BackupInterval.String())
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
