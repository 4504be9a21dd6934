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

	"github.com/go-chi/chi/v5"
	"github.com/krelinga/chunked-transcoder/internal"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := internal.NewWorkerConfigFromEnv()
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

	blob, err := internal.NewBlobStore(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to create blob store: %w", err)
	}
	processor := internal.NewFFmpegProcessor(cfg.Pipeline.Profile)

	// The stages need the store, and the store needs the River client to
	// insert jobs, so Store is filled in once the client exists.
	ingester := &internal.Ingester{Blob: blob, Processor: processor, Config: cfg.Pipeline, Logger: logger}
	encoder := &internal.Encoder{Blob: blob, Processor: processor, Config: cfg.Pipeline, Logger: logger}
	muxer := &internal.Muxer{Blob: blob, Processor: processor, Config: cfg.Pipeline, Logger: logger}

	workers := river.NewWorkers()
	river.AddWorker(workers, &IngestWorker{Ingester: ingester})
	river.AddWorker(workers, &EncodeWorker{Encoder: encoder})
	river.AddWorker(workers, &MuxWorker{Muxer: muxer})
	river.AddWorker(workers, &WebhookWorker{})

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: logger,
		Queues: map[string]river.QueueConfig{
			internal.QueueIngest:  {MaxWorkers: 1},
			internal.QueueEncode:  {MaxWorkers: cfg.Pipeline.EncodeWorkers},
			internal.QueueMux:     {MaxWorkers: 1},
			internal.QueueWebhook: {MaxWorkers: 4},
		},
		Workers: workers,
	})
	if err != nil {
		return fmt.Errorf("failed to create river client: %w", err)
	}

	store := internal.NewPostgresStore(pool, riverClient)
	ingester.Store = store
	encoder.Store = store
	muxer.Store = store

	var metricsServer *http.Server
	if cfg.MetricsPort > 0 {
		router := chi.NewRouter()
		router.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler: router,
		}
		go func() {
			logger.Info("serving metrics", slog.Int("port", cfg.MetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start river client: %w", err)
	}

	logger.Info("worker started",
		slog.String("profile", string(cfg.Pipeline.Profile)),
		slog.Int("encode_workers", cfg.Pipeline.EncodeWorkers))

	<-ctx.Done()
	logger.Info("shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown error", slog.Any("error", err))
		}
	}

	if err := riverClient.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("river client shutdown error: %w", err)
	}

	logger.Info("worker shutdown complete")
	return nil
}
