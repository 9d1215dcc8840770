package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"datastats/internal/config"
	"datastats/internal/infrastructure"
	"datastats/internal/pipeline"
	"datastats/internal/store"
)

func main() {
	initSchema := flag.Bool("init-schema", false, "create missing tables before rebuilding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()

	db, err := store.New(ctx, cfg.Database.ConnString(), logger)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if *initSchema {
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to ensure schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	tagger, err := pipeline.LoadTagger(ctx, db.Lists(), logger)
	if err != nil {
		logger.Error("Failed to load technology lists", slog.String("error", err.Error()))
		os.Exit(1)
	}

	op := pipeline.NewRebuildOperation(
		db.Jobs(), db.Occurrences(), db.Maintenance(), tagger,
		store.WaitConfig{
			Attempts: cfg.Pipeline.MaintenancePollAttempts,
			Interval: cfg.Pipeline.MaintenancePollInterval,
		},
		logger)

	if err := op.Execute(ctx, pipeline.NewRunner(logger)); err != nil {
		logger.Error("Rebuild failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
