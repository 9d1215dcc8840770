package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"datastats/internal/errors"
	"datastats/pkg/contracts/domain"
)

// ReportingRepository maintains the per-run reporting rows keyed by
// (reporting_date, scrap_number).
type ReportingRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// SeedDay creates one waiting row per expected scrap of the day, skipping
// the date if its rows already exist.
func (r *ReportingRepository) SeedDay(ctx context.Context, date time.Time, scrapsPerDay int) error {
	var existing int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM reporting WHERE reporting_date = $1", date).Scan(&existing); err != nil {
		return errors.NewStorageError("failed to count reporting rows", err)
	}
	if existing > 0 {
		return nil
	}

	for scrap := 1; scrap <= scrapsPerDay; scrap++ {
		if _, err := r.pool.Exec(ctx, `
INSERT INTO reporting (reporting_date, scrap_number, job_count, success_scrap,
                       duration, scrap_status, occurrences, daily_job_scrap,
                       lambda_status, cities_to_add)
VALUES ($1, $2, 0, 0, '', $3, 0, 0, $3, 'no')`,
			date, scrap, domain.RunStatusWaiting); err != nil {
			return errors.NewStorageError("failed to seed reporting row", err).
				WithContext("scrap_number", scrap)
		}
	}

	r.logger.InfoContext(ctx, "seeded reporting rows",
		slog.Time("date", date), slog.Int("scraps", scrapsPerDay))
	return nil
}

// UpdateIngestOutcome records a finished ingest run on its reporting row.
func (r *ReportingRepository) UpdateIngestOutcome(ctx context.Context, date time.Time, scrapNumber, jobCount, occurrences, dailyJobScrap int) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE reporting
SET job_count = $3, occurrences = $4, daily_job_scrap = $5, lambda_status = $6
WHERE reporting_date = $1 AND scrap_number = $2`,
		date, scrapNumber, jobCount, occurrences, dailyJobScrap, domain.RunStatusSuccess)
	if err != nil {
		return errors.NewStorageError("failed to update reporting outcome", err).
			WithContext("scrap_number", scrapNumber)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("reporting row").
			WithContext("date", date.Format("2006-01-02")).
			WithContext("scrap_number", scrapNumber)
	}
	return nil
}

// MarkFailure flags a run's reporting row as failed.
func (r *ReportingRepository) MarkFailure(ctx context.Context, date time.Time, scrapNumber int) error {
	if _, err := r.pool.Exec(ctx, `
UPDATE reporting SET lambda_status = $3
WHERE reporting_date = $1 AND scrap_number = $2`,
		date, scrapNumber, domain.RunStatusFailed); err != nil {
		return errors.NewStorageError("failed to mark reporting failure", err).
			WithContext("scrap_number", scrapNumber)
	}
	return nil
}

// UpdateCitiesToAdd flags whether the day's review queue gained entries,
// so the morning report can point a human at the geography table.
func (r *ReportingRepository) UpdateCitiesToAdd(ctx context.Context, date time.Time, citiesQueued bool) error {
	flag := "no"
	if citiesQueued {
		flag = "yes"
	}
	if _, err := r.pool.Exec(ctx, `
UPDATE reporting SET cities_to_add = $2 WHERE reporting_date = $1`,
		date, flag); err != nil {
		return errors.NewStorageError("failed to update cities flag", err)
	}
	return nil
}
