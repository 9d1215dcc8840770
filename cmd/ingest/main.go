package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"datastats/internal/config"
	"datastats/internal/geo"
	"datastats/internal/infrastructure"
	"datastats/internal/pipeline"
	"datastats/internal/store"
)

func main() {
	batchPath := flag.String("batch", "", "path to the scraped batch CSV to ingest (required)")
	geographyPath := flag.String("geography", "", "geography reference CSV (defaults to configured path)")
	initSchema := flag.Bool("init-schema", false, "create missing tables before ingesting")
	flag.Parse()

	if *batchPath == "" {
		slog.Error("missing required -batch flag")
		flag.Usage()
		os.Exit(1)
	}

	// .env is optional; real deployments configure through the environment.
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

	batch, err := pipeline.LoadBatch(*batchPath)
	if err != nil {
		logger.Error("Failed to load batch",
			slog.String("path", *batchPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Loaded batch",
		slog.String("path", *batchPath),
		slog.Int("listings", len(batch)))

	geoPath := cfg.Paths.GeographyFile
	if *geographyPath != "" {
		geoPath = *geographyPath
	}
	table, err := geo.LoadTable(geoPath)
	if err != nil {
		logger.Error("Failed to load geography table",
			slog.String("path", geoPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	tagger, err := pipeline.LoadTagger(ctx, db.Lists(), logger)
	if err != nil {
		logger.Error("Failed to load technology lists", slog.String("error", err.Error()))
		os.Exit(1)
	}

	op := pipeline.NewIngestOperation(
		db.Jobs(), db.Occurrences(), db.CityErrors(), db.Reporting(), db.Maintenance(),
		geo.NewResolver(table, logger), tagger,
		pipeline.IngestConfig{
			ScrapsPerDay: cfg.Pipeline.ScrapsPerDay,
			Wait: store.WaitConfig{
				Attempts: cfg.Pipeline.MaintenancePollAttempts,
				Interval: cfg.Pipeline.MaintenancePollInterval,
			},
		},
		logger)

	if err := op.Execute(ctx, pipeline.NewRunner(logger), batch); err != nil {
		logger.Error("Ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
