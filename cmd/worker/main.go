package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/canchaya/canchas-api/internal/config"
	"github.com/canchaya/canchas-api/internal/logging"
	"github.com/canchaya/canchas-api/internal/queue"
)

// The worker drains catalog events into an append-only audit log.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Broker.URL == "" {
		log.Fatal("RABBIT_URL is required for the worker")
	}
	logger := logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}).
		With(logging.FieldService, "catalog-worker", logging.FieldEnv, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info(logger, "consuming catalog events", "queue", cfg.Broker.Queue, "log_path", cfg.Broker.LogPath)
	err = queue.StartCatalogConsumer(ctx, queue.ConsumerConfig{
		URL:      cfg.Broker.URL,
		Exchange: cfg.Broker.Exchange,
		Queue:    cfg.Broker.Queue,
		LogPath:  cfg.Broker.LogPath,
	}, logger)
	if err != nil && ctx.Err() == nil {
		logging.Error(logger, "consumer stopped", err)
		os.Exit(1)
	}
	logging.Info(logger, "worker stopped")
}
