package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"datastats/internal/config"
	"datastats/internal/geo"
	"datastats/internal/infrastructure"
	"datastats/internal/pipeline"
	"datastats/internal/store"
)

func main() {
	dateFlag := flag.String("date", "", "reporting date to refresh, YYYY-MM-DD (defaults to today)")
	geographyPath := flag.String("geography", "", "geography reference CSV (defaults to configured path)")
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

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if *dateFlag != "" {
		date, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			slog.Error("Invalid -date value", "value", *dateFlag, "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	db, err := store.New(ctx, cfg.Database.ConnString(), logger)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

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

	op := pipeline.NewCityReviewOperation(
		db.Jobs(), db.CityErrors(), db.Reporting(),
		geo.NewResolver(table, logger), logger)

	if err := op.Execute(ctx, pipeline.NewRunner(logger), date); err != nil {
		logger.Error("City review failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
