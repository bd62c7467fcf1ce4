package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhima/wx-api/internal/logging"
	"github.com/dhima/wx-api/internal/scheduler"
	"github.com/dhima/wx-api/internal/storage"
	"github.com/dhima/wx-api/pkg/config"
	"go.uber.org/zap"
)

// Runs the stale request reaper on its own, for deployments where several API
// replicas share one MySQL database.
func main() {
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := storage.Open(openCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()

	store := storage.NewSQLClient(db, cfg.DBDriver)
	if err := store.Initialize(ctx); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}

	engine, err := scheduler.NewEngine(cfg.ReaperSchedule, cfg.ReaperStaleAfter, store, logger.Zap())
	if err != nil {
		logger.Fatal("failed to create reaper", zap.Error(err))
	}

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("reaper stopped", zap.Error(err))
	}
}
