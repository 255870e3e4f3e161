package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/hub"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/jobs"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/server"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/store"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/config"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/logging"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state/statemanager"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application run failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Application shut down successfully.")
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	logger := logging.New(logging.LevelInfo)
	slog.SetDefault(logger)

	cfg, err := config.Load(logger, "config")
	if err != nil {
		return err
	}
	logger = logging.New(logging.ParseLevel(cfg.Log.Level))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", slog.Any("error", err))
		}
	}()

	db, err := store.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	st := store.New(db, logger)

	registry := statemanager.NewInMemoryManager(logger)
	h := hub.New(st, registry, hub.Config{AnonymousUserID: cfg.Hub.AnonymousUserID}, logger)
	logger.Info("Hub initialized.", slog.String("database", cfg.Database.Driver))

	scheduler, err := jobs.NewScheduler(ctx, logger)
	if err != nil {
		return err
	}
	if cfg.Presence.ReconcileInterval > 0 {
		reconciler := jobs.NewPresenceReconciler(st, h, logger)
		if err := scheduler.SchedulePresence(reconciler, cfg.Presence.ReconcileInterval); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Warn("scheduler shutdown failed", slog.Any("error", err))
		}
	}()

	app, err := server.NewApp(ctx, logger, cfg, registry, h)
	if err != nil {
		return err
	}
	return app.Run()
}
