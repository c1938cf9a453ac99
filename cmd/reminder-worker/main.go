package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ttracx/invoicetracker/internal/amqp"
	"github.com/ttracx/invoicetracker/internal/config"
	"github.com/ttracx/invoicetracker/internal/log"
	"github.com/ttracx/invoicetracker/internal/services"
	"github.com/ttracx/invoicetracker/internal/storage"
	"github.com/ttracx/invoicetracker/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.Init(slog.LevelInfo)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The broker is optional: without it the sweep still promotes overdue
	// invoices, it just cannot queue reminder deliveries.
	var publisher services.ReminderPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	clock := services.SystemClock{}
	reminderService := services.NewReminderService(repo, publisher, clock,
		cfg.ReminderBatchSize, cfg.ReminderUpcomingWindow)
	reminderWorker := worker.NewReminderWorker(repo, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if amqpClient != nil {
		go func() {
			handler := func(msg *amqp.ReminderMessage) error {
				return reminderWorker.HandleReminderMessage(ctx, msg)
			}
			if err := amqpClient.ConsumeReminders(ctx, handler); err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", "error", err)
				}
				cancel()
			}
		}()
	}

	runSweep := func() {
		moved, err := reminderService.SweepOverdue(ctx)
		if err != nil {
			logger.Error("Overdue sweep failed", "error", err)
		} else if moved > 0 {
			logger.Info("Overdue sweep completed", "moved", moved)
		}

		published, err := reminderService.ScheduleReminders(ctx)
		if err != nil {
			logger.Error("Reminder scheduling failed", "error", err)
		} else if published > 0 {
			logger.Info("Reminders scheduled", "published", published)
		}
	}

	// Run one sweep at startup so a restarted worker catches up
	// immediately instead of waiting a full interval.
	runSweep()

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runSweep()
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight message handling a moment to finish
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
