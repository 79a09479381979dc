package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gnanapravallika/AutoMate-Hub/internal/config"
	"github.com/Gnanapravallika/AutoMate-Hub/internal/core"
	"github.com/Gnanapravallika/AutoMate-Hub/internal/invoice"
	"github.com/Gnanapravallika/AutoMate-Hub/internal/logging"
	"github.com/Gnanapravallika/AutoMate-Hub/internal/mail"
	"github.com/Gnanapravallika/AutoMate-Hub/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_workers", cfg.Process.MaxWorkers,
		"mail_configured", cfg.Mail.Configured(),
	)

	// Ensure storage directories exist before anything writes to them
	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.InvoiceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("failed to create storage directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	generator := invoice.NewGenerator(cfg.Storage.InvoiceDir, cfg.Company.Name, cfg.Company.Email)

	dispatcher := mail.NewDispatcher(mail.Config{
		Server:   cfg.Mail.Server,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.FromAddress(),
		StartTLS: cfg.Mail.StartTLS,
	})
	if !cfg.Mail.Configured() {
		slog.Warn("mail credentials not configured, dispatch will run in dry-run mode")
	}

	processor := core.NewProcessor(generator, dispatcher, core.ProcessorOptions{
		CompanyName:     cfg.Company.Name,
		MaxWorkers:      cfg.Process.MaxWorkers,
		DispatchTimeout: cfg.Process.DispatchTimeout,
	})

	server := web.NewServer(processor, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight batch runs finish before closing the listener
		if active := server.ActiveBatches(); active > 0 {
			slog.Info("waiting for batches to complete", "active", active)
			if err := server.WaitForBatches(shutdownCtx); err != nil {
				slog.Warn("batches did not complete in time", "error", err)
			} else {
				slog.Info("all batches completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
