package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/pisearch/internal/config"
	"github.com/JonMunkholm/pisearch/internal/core"
	"github.com/JonMunkholm/pisearch/internal/logging"
	"github.com/JonMunkholm/pisearch/internal/web"
	"github.com/joho/godotenv"
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

	logCloser := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer logCloser.Close()

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	core.MaxFileSize = cfg.Upload.MaxFileSize

	classifier := core.NewClassifier(nil)
	if cfg.Classifier.RulesFile != "" {
		rules, err := core.LoadRules(cfg.Classifier.RulesFile)
		if err != nil {
			slog.Error("failed to load classifier rules", "file", cfg.Classifier.RulesFile, "error", err)
			os.Exit(1)
		}
		classifier = core.NewClassifier(rules)
		slog.Info("classifier rules loaded", "file", cfg.Classifier.RulesFile, "rules", len(rules))
	}

	for _, rule := range classifier.Rules() {
		slog.Debug("classifier rule", "role", rule.Role, "keywords", rule.Keywords, "exclude", rule.Exclude)
	}

	for _, r := range core.Readers() {
		slog.Debug("reader registered", "format", r.Format, "extensions", r.Extensions)
	}

	service := core.NewService(
		core.NewSessionStore(cfg.Session.TTL, cfg.Session.CleanupInterval),
		classifier,
		core.ServiceConfig{
			MaxFiles:      cfg.Upload.MaxFiles,
			MaxConcurrent: cfg.Upload.MaxConcurrent,
			MaxWait:       cfg.Upload.MaxWaitTime,
			Timeout:       cfg.Upload.Timeout,
			DefaultMode:   core.ParseMode(cfg.Upload.DefaultMode),
		},
	)

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.Limiter().Status(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
		}
		if err := service.Shutdown(shutdownCtx); err != nil {
			slog.Warn("uploads did not complete in time", "error", err)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
