package pipeline

import (
	"context"
	"log/slog"
	"time"

	"datastats/internal/geo"
	"datastats/internal/normalize"
	"datastats/pkg/contracts/domain"
)

// CityReviewOperation sweeps the city_error queue after the geography
// table has been extended by hand: pending values that now resolve are
// backfilled onto their listings and marked processed, the queue is
// deduplicated and the reporting flag is refreshed.
type CityReviewOperation struct {
	jobs       JobsStore
	cityErrors CityErrorStore
	reporting  ReportingStore
	resolver   *geo.Resolver
	logger     *slog.Logger
}

// NewCityReviewOperation wires a review sweep.
func NewCityReviewOperation(jobs JobsStore, cityErrors CityErrorStore, reporting ReportingStore, resolver *geo.Resolver, logger *slog.Logger) *CityReviewOperation {
	if logger == nil {
		logger = slog.Default()
	}
	return &CityReviewOperation{
		jobs:       jobs,
		cityErrors: cityErrors,
		reporting:  reporting,
		resolver:   resolver,
		logger:     logger,
	}
}

// Execute runs the sweep for the given reporting date.
func (op *CityReviewOperation) Execute(ctx context.Context, runner *Runner, date time.Time) error {
	var pendingLeft int

	steps := []Step{
		{ID: "dedupe-queue", Execute: func(ctx context.Context) error {
			return op.cityErrors.RebuildDeduplicated(ctx)
		}},
		{ID: "resolve-pending", Execute: func(ctx context.Context) error {
			pending, err := op.cityErrors.FetchValues(ctx, domain.CityStatusToProcess)
			if err != nil {
				return err
			}

			var resolved []string
			for _, raw := range pending {
				res, ok := op.resolver.Resolve(raw)
				if !ok {
					continue
				}
				rows, err := op.jobs.UpdateGeography(ctx, raw,
					normalize.TitleCase(res.City), normalize.TitleCase(res.Region))
				if err != nil {
					return err
				}
				resolved = append(resolved, raw)
				op.logger.InfoContext(ctx, "backfilled reviewed city",
					slog.String("value", raw),
					slog.String("city", res.City),
					slog.Int64("listings", rows))
			}

			pendingLeft = len(pending) - len(resolved)
			return op.cityErrors.MarkProcessed(ctx, resolved)
		}},
		{ID: "update-reporting", Execute: func(ctx context.Context) error {
			return op.reporting.UpdateCitiesToAdd(ctx, date, pendingLeft > 0)
		}},
	}

	_, err := runner.Run(ctx, "cityreview", steps)
	return err
}
