package pipeline

import (
	"context"
	"log/slog"
	"time"

	"datastats/internal/geo"
	"datastats/internal/normalize"
	"datastats/internal/occurrence"
	"datastats/internal/store"
	"datastats/internal/tagging"
	"datastats/pkg/contracts/domain"
)

// IngestConfig tunes one ingest run.
type IngestConfig struct {
	ScrapsPerDay int
	Wait         store.WaitConfig
}

// IngestOperation processes one scraped batch: waits for the maintenance
// gate, tags and resolves every raw listing, persists the cleaned rows,
// sweeps monthly duplicates and merges the day's occurrence aggregate.
type IngestOperation struct {
	jobs        JobsStore
	occurrences OccurrenceStore
	cityErrors  CityErrorStore
	reporting   ReportingStore
	gate        Gate

	resolver   *geo.Resolver
	tagger     *tagging.Tagger
	normalizer *normalize.Normalizer

	cfg    IngestConfig
	logger *slog.Logger
}

// NewIngestOperation wires an ingest run.
func NewIngestOperation(
	jobs JobsStore,
	occurrences OccurrenceStore,
	cityErrors CityErrorStore,
	reporting ReportingStore,
	gate Gate,
	resolver *geo.Resolver,
	tagger *tagging.Tagger,
	cfg IngestConfig,
	logger *slog.Logger,
) *IngestOperation {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestOperation{
		jobs:        jobs,
		occurrences: occurrences,
		cityErrors:  cityErrors,
		reporting:   reporting,
		gate:        gate,
		resolver:    resolver,
		tagger:      tagger,
		normalizer:  normalize.NewNormalizer(logger),
		cfg:         cfg,
		logger:      logger,
	}
}

// Execute runs the batch through the pipeline. On failure the reporting
// row of the run is flagged failed before the error surfaces.
func (op *IngestOperation) Execute(ctx context.Context, runner *Runner, batch []domain.RawListing) error {
	if len(batch) == 0 {
		op.logger.InfoContext(ctx, "empty batch, nothing to ingest")
		return nil
	}

	date := dateOnly(batch[0].DateOfSearch)
	scrapNumber := batch[0].ScrapNumber

	var (
		cleaned    []domain.Listing
		unresolved []string
		persisted  []domain.Listing
		merged     []domain.Occurrence
	)

	steps := []Step{
		{ID: "wait-for-gate", Execute: func(ctx context.Context) error {
			return op.gate.WaitUntilAvailable(ctx, op.cfg.Wait)
		}},
		{ID: "seed-reporting", Execute: func(ctx context.Context) error {
			return op.reporting.SeedDay(ctx, date, op.cfg.ScrapsPerDay)
		}},
		{ID: "clean-batch", Execute: func(ctx context.Context) error {
			cleaned, unresolved = op.cleanBatch(ctx, batch)
			return nil
		}},
		{ID: "insert-listings", Execute: func(ctx context.Context) error {
			return op.jobs.InsertBatch(ctx, cleaned)
		}},
		{ID: "delete-monthly-duplicates", Execute: func(ctx context.Context) error {
			_, err := op.jobs.DeleteMonthlyDuplicates(ctx, date)
			return err
		}},
		{ID: "queue-unresolved-cities", Execute: func(ctx context.Context) error {
			queued, err := op.cityErrors.InsertToProcess(ctx, unresolved)
			if err != nil {
				return err
			}
			if queued > 0 {
				return op.reporting.UpdateCitiesToAdd(ctx, date, true)
			}
			return nil
		}},
		{ID: "merge-day-occurrences", Execute: func(ctx context.Context) error {
			// Aggregate from the persisted rows of this run, not the
			// in-memory batch: the monthly duplicate sweep has already
			// pruned reposts from the table and they must not be counted.
			var err error
			persisted, err = op.jobs.FetchDay(ctx, date, scrapNumber)
			if err != nil {
				return err
			}
			fresh := occurrence.Aggregate(persisted)
			existing, err := op.occurrences.FetchDay(ctx, date)
			if err != nil {
				return err
			}
			merged = occurrence.MergeSameDay(existing, fresh)
			if err := op.occurrences.DeleteDay(ctx, date); err != nil {
				return err
			}
			return op.occurrences.InsertBatch(ctx, merged)
		}},
		{ID: "update-reporting", Execute: func(ctx context.Context) error {
			return op.reporting.UpdateIngestOutcome(ctx, date, scrapNumber,
				len(cleaned), occurrence.Total(merged), len(persisted))
		}},
	}

	if _, err := runner.Run(ctx, "ingest", steps); err != nil {
		if markErr := op.reporting.MarkFailure(ctx, date, scrapNumber); markErr != nil {
			op.logger.ErrorContext(ctx, "failed to flag reporting row",
				slog.String("error", markErr.Error()))
		}
		return err
	}
	return nil
}

// cleanBatch tags, resolves and normalizes the raw rows. Listings without
// any recognizable technology are dropped; unresolvable city texts are
// collected once each for the review queue.
func (op *IngestOperation) cleanBatch(ctx context.Context, batch []domain.RawListing) ([]domain.Listing, []string) {
	cleaned := make([]domain.Listing, 0, len(batch))
	var unresolved []string
	seen := make(map[string]struct{})
	dropped := 0

	for _, raw := range batch {
		technos := op.tagger.ExtractJoined(raw.Description)
		if technos == "" {
			dropped++
			continue
		}

		var res *geo.Resolution
		if r, ok := op.resolver.Resolve(raw.CityName); ok {
			res = &r
		} else if raw.CityName != "" {
			if _, dup := seen[raw.CityName]; !dup {
				seen[raw.CityName] = struct{}{}
				unresolved = append(unresolved, raw.CityName)
			}
		}

		cleaned = append(cleaned, op.normalizer.Clean(raw, res, technos))
	}

	op.logger.InfoContext(ctx, "cleaned batch",
		slog.Int("raw", len(batch)),
		slog.Int("kept", len(cleaned)),
		slog.Int("dropped_no_technos", dropped),
		slog.Int("unresolved_cities", len(unresolved)))
	return cleaned, unresolved
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
