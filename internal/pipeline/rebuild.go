package pipeline

import (
	"context"
	"log/slog"

	"datastats/internal/normalize"
	"datastats/internal/occurrence"
	"datastats/internal/store"
	"datastats/internal/tagging"
	"datastats/pkg/contracts/domain"
)

// RebuildOperation re-tags every persisted listing with the current
// technology lists and substitutes both live tables through the staged
// rename swap, under the maintenance gate. Readers querying between the
// gate flips only ever see the old or the new tables, never a mix.
type RebuildOperation struct {
	jobs        JobsStore
	occurrences OccurrenceStore
	gate        Gate
	tagger      *tagging.Tagger
	wait        store.WaitConfig
	logger      *slog.Logger
}

// NewRebuildOperation wires a rebuild run.
func NewRebuildOperation(jobs JobsStore, occurrences OccurrenceStore, gate Gate, tagger *tagging.Tagger, wait store.WaitConfig, logger *slog.Logger) *RebuildOperation {
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildOperation{
		jobs:        jobs,
		occurrences: occurrences,
		gate:        gate,
		tagger:      tagger,
		wait:        wait,
		logger:      logger,
	}
}

// Execute runs the full rebuild. The maintenance gate is released on
// every exit path, including failures, so a crashed rebuild cannot wedge
// the ingest out of the database.
func (op *RebuildOperation) Execute(ctx context.Context, runner *Runner) (err error) {
	// Another run may hold the gate; poll it with the bounded budget
	// before seizing, never stomp a flag someone else set.
	if err := op.gate.WaitUntilAvailable(ctx, op.wait); err != nil {
		return err
	}
	if err := op.gate.Set(ctx, domain.MaintenanceActive); err != nil {
		return err
	}
	defer func() {
		if gateErr := op.gate.Set(ctx, domain.MaintenanceAvailable); gateErr != nil {
			op.logger.ErrorContext(ctx, "failed to release maintenance gate",
				slog.String("error", gateErr.Error()))
			if err == nil {
				err = gateErr
			}
		}
	}()

	var retagged []domain.Listing

	steps := []Step{
		{ID: "retag-listings", Execute: func(ctx context.Context) error {
			listings, err := op.jobs.FetchAll(ctx)
			if err != nil {
				return err
			}
			retagged = op.retag(ctx, listings)
			return nil
		}},
		{ID: "stage-listings", Execute: func(ctx context.Context) error {
			return op.jobs.StageReplacement(ctx, retagged)
		}},
		{ID: "prune-staged", Execute: func(ctx context.Context) error {
			pruned, err := op.jobs.DeleteStagedWithoutTechnos(ctx)
			if err != nil {
				return err
			}
			op.logger.InfoContext(ctx, "pruned staged listings without technologies",
				slog.Int64("rows", pruned))
			return nil
		}},
		{ID: "swap-listings", Execute: func(ctx context.Context) error {
			return op.jobs.SwapStaging(ctx)
		}},
		{ID: "stage-occurrences", Execute: func(ctx context.Context) error {
			kept := retagged[:0:0]
			for _, l := range retagged {
				if l.Technos != "" {
					kept = append(kept, l)
				}
			}
			return op.occurrences.StageReplacement(ctx, occurrence.Aggregate(kept))
		}},
		{ID: "swap-occurrences", Execute: func(ctx context.Context) error {
			return op.occurrences.SwapStaging(ctx)
		}},
	}

	_, err = runner.Run(ctx, "rebuild", steps)
	return err
}

// retag re-extracts each listing's technologies from its description with
// the current lists and re-applies the monthly dedup in memory, keeping
// ids so the swap preserves identity.
func (op *RebuildOperation) retag(ctx context.Context, listings []domain.Listing) []domain.Listing {
	emptied := 0
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		l.Technos = op.tagger.ExtractJoined(l.Description)
		if l.Technos == "" {
			emptied++
		}
		out = append(out, l)
	}

	deduped := normalize.DeduplicateMonthly(out)

	op.logger.InfoContext(ctx, "retagged listings",
		slog.Int("total", len(listings)),
		slog.Int("no_technos", emptied),
		slog.Int("after_dedup", len(deduped)))
	return deduped
}
