package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/ttracx/invoicetracker/internal/auth"
	"github.com/ttracx/invoicetracker/internal/cache"
	"github.com/ttracx/invoicetracker/internal/config"
	apphttp "github.com/ttracx/invoicetracker/internal/http"
	"github.com/ttracx/invoicetracker/internal/log"
	"github.com/ttracx/invoicetracker/internal/services"
	"github.com/ttracx/invoicetracker/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.Init(slog.LevelInfo)

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

	cacheManager := cache.NewManager()
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	clock := services.SystemClock{}

	reports := services.NewReportService(repo, clock, cacheManager)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Auth:      services.NewAuthService(repo, tokens, clock),
		Clients:   services.NewClientService(repo, clock, reports),
		Invoices:  services.NewInvoiceService(repo, clock, reports),
		Payments:  services.NewPaymentService(repo, clock, reports),
		Reports:   reports,
		Reminders: services.NewReminderService(repo, nil, clock, cfg.ReminderBatchSize, cfg.ReminderUpcomingWindow),
		Verifier:  tokens,
		Pinger:    repo,
	})

	// The SPA runs on another origin, so CORS wraps the whole handler.
	srv.Handler = cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(srv.Handler)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting invoicetracker server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
