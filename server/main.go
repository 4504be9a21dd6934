package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/krelinga/chunked-transcoder/internal"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := internal.NewServerConfigFromEnv()
	logger := internal.NewLogger(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	pool, err := internal.NewDBPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()

	logger.Info("running database migrations")
	if err := internal.MigrateUp(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Insert-only: the server enqueues ingest, encode and mux jobs but never
	// works them.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create river client: %w", err)
	}

	server := NewServer(internal.NewPostgresStore(pool, riverClient), logger)
	httpHandler, err := server.Router()
	if err != nil {
		return fmt.Errorf("failed to create HTTP handler: %w", err)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: httpHandler,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", slog.Int("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received, shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	logger.Info("server shutdown complete")
	return nil
}
