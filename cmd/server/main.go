package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/rezz/internal/config"
	"github.com/JonMunkholm/rezz/internal/core"
	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/logging"
	"github.com/JonMunkholm/rezz/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"auto_schema", cfg.Database.AutoSchema,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"api_key_required", cfg.Security.RequireAPIKey,
	)

	handle := db.NewHandle(db.WithLogger(logger))

	// A failed first connect is not fatal: every request retries, and
	// /api/health reports the last error meanwhile.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	if err := handle.ConnectString(connectCtx, cfg.Database.ConnString()); err != nil {
		slog.Warn("database unavailable at startup", "error", err)
	}
	cancelConnect()

	service := core.NewService(handle, core.WithLogger(logger))

	if cfg.Database.AutoSchema {
		schemaCtx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
		if err := service.ApplySchema(schemaCtx); err != nil {
			slog.Error("failed to apply schema", "error", err)
			cancel()
			os.Exit(1)
		}
		cancel()
		slog.Info("schema applied")
	}

	slog.Info("entities registered", "entities", service.Exporters.Keys())

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if err := handle.Disconnect(shutdownCtx); err != nil {
			slog.Warn("disconnect error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
