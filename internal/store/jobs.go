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

// jobsColumns is the column order shared by inserts and scans, id first.
var jobsColumns = []string{
	"id", "date_of_search", "scrap_number", "day_of_week", "job_search",
	"job_name", "company_name", "city_name", "city", "region", "technos",
	"description", "lower_salary", "upper_salary", "job_type", "sector",
}

// JobsRepository persists the canonical listings table and its staging
// replacement used by the rebuild swap.
type JobsRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// InsertBatch bulk-loads cleaned listings into the live jobs table. The
// id column is left to the sequence.
func (r *JobsRepository) InsertBatch(ctx context.Context, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, listingValues(l)[1:]) // skip id
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"jobs"},
		jobsColumns[1:],
		pgx.CopyFromRows(rows))
	if err != nil {
		return errors.NewStorageError("failed to insert listings batch", err).
			WithContext("rows", len(listings))
	}

	r.logger.InfoContext(ctx, "inserted listings batch", slog.Int64("rows", n))
	return nil
}

// DeleteMonthlyDuplicates enforces the one-posting-per-month rule for the
// month of the given date: within each (month, job_name, company_name,
// city_name) group only the lowest id survives.
func (r *JobsRepository) DeleteMonthlyDuplicates(ctx context.Context, date time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM jobs
WHERE DATE_TRUNC('month', date_of_search) = DATE_TRUNC('month', $1::date)
AND id NOT IN (
	SELECT MIN(id)
	FROM jobs
	WHERE DATE_TRUNC('month', date_of_search) = DATE_TRUNC('month', $1::date)
	GROUP BY job_name, company_name, city_name, EXTRACT(MONTH FROM date_of_search))`,
		date)
	if err != nil {
		return 0, errors.NewStorageError("failed to delete monthly duplicates", err)
	}

	r.logger.InfoContext(ctx, "removed monthly duplicate listings",
		slog.Int64("rows", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// FetchDay returns the listings persisted for one (date, scrap) run.
func (r *JobsRepository) FetchDay(ctx context.Context, date time.Time, scrapNumber int) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, date_of_search, scrap_number, day_of_week, job_search, job_name,
       company_name, city_name, city, region, technos, description,
       lower_salary, upper_salary, job_type, sector
FROM jobs
WHERE date_of_search = $1 AND scrap_number = $2
ORDER BY id`, date, scrapNumber)
	if err != nil {
		return nil, errors.NewStorageError("failed to fetch day listings", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// UpdateGeography backfills city and region on every listing whose raw
// city text matches the reviewed value and whose geography is still null.
func (r *JobsRepository) UpdateGeography(ctx context.Context, rawCity, city, region string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE jobs SET city = $2, region = $3
WHERE LOWER(city_name) = LOWER($1) AND city IS NULL`, rawCity, city, region)
	if err != nil {
		return 0, errors.NewStorageError("failed to backfill geography", err).
			WithContext("city_name", rawCity)
	}
	return tag.RowsAffected(), nil
}

// FetchAll returns the whole jobs table, newest first, for a full
// re-tagging rebuild.
func (r *JobsRepository) FetchAll(ctx context.Context) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, date_of_search, scrap_number, day_of_week, job_search, job_name,
       company_name, city_name, city, region, technos, description,
       lower_salary, upper_salary, job_type, sector
FROM jobs
ORDER BY id DESC`)
	if err != nil {
		return nil, errors.NewStorageError("failed to fetch listings", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// StageReplacement creates the jobs_temp staging table, restarts its
// sequence above the current max id so later live inserts cannot collide,
// and bulk-loads the replacement rows with their existing ids.
func (r *JobsRepository) StageReplacement(ctx context.Context, listings []domain.Listing) error {
	if _, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS jobs_temp (
	id SERIAL PRIMARY KEY,
	date_of_search DATE,
	scrap_number INT,
	day_of_week VARCHAR(20),
	job_search VARCHAR(30),
	job_name VARCHAR(300),
	company_name VARCHAR(300),
	city_name VARCHAR(120),
	city VARCHAR(120),
	region VARCHAR(120),
	technos TEXT,
	description TEXT,
	lower_salary FLOAT,
	upper_salary FLOAT,
	job_type VARCHAR(120),
	sector VARCHAR(300)
)`); err != nil {
		return errors.NewStorageError("failed to create staging table", err)
	}

	var maxID int64
	for _, l := range listings {
		if l.ID > maxID {
			maxID = l.ID
		}
	}
	if _, err := r.pool.Exec(ctx,
		"SELECT setval('jobs_temp_id_seq', $1, false)", maxID+1); err != nil {
		return errors.NewStorageError("failed to restart staging sequence", err)
	}

	rows := make([][]any, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, listingValues(l))
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"jobs_temp"},
		jobsColumns,
		pgx.CopyFromRows(rows))
	if err != nil {
		return errors.NewStorageError("failed to load staging table", err)
	}

	r.logger.InfoContext(ctx, "staged replacement listings",
		slog.Int64("rows", n), slog.Int64("next_id", maxID+1))
	return nil
}

// DeleteStagedWithoutTechnos drops staged rows with a null technology
// list; they are unusable for the dataset.
func (r *JobsRepository) DeleteStagedWithoutTechnos(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM jobs_temp WHERE technos IS NULL")
	if err != nil {
		return 0, errors.NewStorageError("failed to prune staged rows", err)
	}
	return tag.RowsAffected(), nil
}

// SwapStaging substitutes the staged table for the live one: live is
// renamed aside, the staging table takes its name, the old table is
// dropped. The three steps run in one transaction so readers can never
// observe a missing or half-renamed table.
func (r *JobsRepository) SwapStaging(ctx context.Context) error {
	return swapTables(ctx, r.pool, r.logger, "jobs", "jobs_temp")
}

func listingValues(l domain.Listing) []any {
	var technos any
	if l.Technos != "" {
		technos = l.Technos
	}
	return []any{
		l.ID, l.DateOfSearch, l.ScrapNumber, l.DayOfWeek, l.JobSearch,
		l.JobName, l.CompanyName, l.CityName, l.City, l.Region, technos,
		l.Description, l.LowerSalary, l.UpperSalary, l.JobType, l.Sector,
	}
}

func scanListings(rows pgx.Rows) ([]domain.Listing, error) {
	var out []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var technos *string
		if err := rows.Scan(&l.ID, &l.DateOfSearch, &l.ScrapNumber, &l.DayOfWeek,
			&l.JobSearch, &l.JobName, &l.CompanyName, &l.CityName, &l.City,
			&l.Region, &technos, &l.Description, &l.LowerSalary, &l.UpperSalary,
			&l.JobType, &l.Sector); err != nil {
			return nil, errors.NewStorageError("failed to scan listing row", err)
		}
		if technos != nil {
			l.Technos = *technos
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read listing rows", err)
	}
	return out, nil
}
