package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frescosur/conversor/internal/auth"
	"github.com/frescosur/conversor/internal/config"
	"github.com/frescosur/conversor/internal/logging"
	"github.com/frescosur/conversor/internal/service"
	"github.com/frescosur/conversor/internal/store"
	"github.com/frescosur/conversor/internal/web"
	"github.com/frescosur/conversor/internal/writer"
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

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Path,
		"output_dir", cfg.Convert.OutputDir,
	)

	// Open the embedded database
	ctx := context.Background()
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	if err := st.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	if err := st.Seed(ctx, cfg.Seed.AdminPassword, cfg.Seed.OperatorPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "path", cfg.Database.Path)

	// Wire the conversion pipeline and the API
	svc := service.New(st, writer.New(cfg.Convert.OutputDir), slog.Default(), cfg.Convert.MaxFileSize)
	sessions := auth.NewManager(cfg.Session.TTL)
	server := web.NewServer(cfg, st, svc, sessions)

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
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
