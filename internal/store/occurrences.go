package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datastats/internal/errors"
	"datastats/pkg/contracts/domain"
)

var occurrenceColumns = []string{
	"date_of_search", "day_of_week", "region", "job_search", "technologie", "occurrences",
}

// OccurrenceRepository persists the jobsoccurrences aggregate table.
type OccurrenceRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// FetchDay returns the aggregate rows already persisted for a date, so an
// intraday re-run can be merged instead of double-counted.
func (r *OccurrenceRepository) FetchDay(ctx context.Context, date time.Time) ([]domain.Occurrence, error) {
	rows, err := r.pool.Query(ctx, `
SELECT date_of_search, day_of_week, region, job_search, technologie, occurrences
FROM jobsoccurrences
WHERE date_of_search = $1`, date)
	if err != nil {
		return nil, errors.NewStorageError("failed to fetch day occurrences", err)
	}
	defer rows.Close()

	return scanOccurrences(rows)
}

// DeleteDay clears the aggregate rows of one date ahead of a merged rewrite.
func (r *OccurrenceRepository) DeleteDay(ctx context.Context, date time.Time) error {
	if _, err := r.pool.Exec(ctx,
		"DELETE FROM jobsoccurrences WHERE date_of_search = $1", date); err != nil {
		return errors.NewStorageError("failed to delete day occurrences", err)
	}
	return nil
}

// InsertBatch bulk-loads aggregate rows into the live table.
func (r *OccurrenceRepository) InsertBatch(ctx context.Context, occurrences []domain.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"jobsoccurrences"},
		occurrenceColumns,
		pgx.CopyFromRows(occurrenceValues(occurrences)))
	if err != nil {
		return errors.NewStorageError("failed to insert occurrences batch", err).
			WithContext("rows", len(occurrences))
	}

	r.logger.InfoContext(ctx, "inserted occurrence rows", slog.Int64("rows", n))
	return nil
}

// StageReplacement creates and fills jobsoccurrences_temp with a full
// recomputed aggregate.
func (r *OccurrenceRepository) StageReplacement(ctx context.Context, occurrences []domain.Occurrence) error {
	if _, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS jobsoccurrences_temp (
	date_of_search DATE,
	day_of_week VARCHAR(20),
	region VARCHAR(120),
	job_search VARCHAR(30),
	technologie VARCHAR(120),
	occurrences INT
)`); err != nil {
		return errors.NewStorageError("failed to create occurrences staging table", err)
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"jobsoccurrences_temp"},
		occurrenceColumns,
		pgx.CopyFromRows(occurrenceValues(occurrences)))
	if err != nil {
		return errors.NewStorageError("failed to load occurrences staging table", err)
	}

	r.logger.InfoContext(ctx, "staged replacement occurrences", slog.Int64("rows", n))
	return nil
}

// SwapStaging promotes jobsoccurrences_temp to the live table name.
func (r *OccurrenceRepository) SwapStaging(ctx context.Context) error {
	return swapTables(ctx, r.pool, r.logger, "jobsoccurrences", "jobsoccurrences_temp")
}

func occurrenceValues(occurrences []domain.Occurrence) [][]any {
	rows := make([][]any, 0, len(occurrences))
	for _, o := range occurrences {
		rows = append(rows, []any{
			o.DateOfSearch, o.DayOfWeek, o.Region, o.JobSearch, o.Technology, o.Occurrences,
		})
	}
	return rows
}

func scanOccurrences(rows pgx.Rows) ([]domain.Occurrence, error) {
	var out []domain.Occurrence
	for rows.Next() {
		var o domain.Occurrence
		if err := rows.Scan(&o.DateOfSearch, &o.DayOfWeek, &o.Region,
			&o.JobSearch, &o.Technology, &o.Occurrences); err != nil {
			return nil, errors.NewStorageError("failed to scan occurrence row", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read occurrence rows", err)
	}
	return out, nil
}
