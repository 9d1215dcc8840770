// Package store is the Postgres persistence layer: one repository per
// table, staging-table management and the rename-based table swap used by
// the rebuild pipeline.
package store

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"datastats/internal/errors"
)

// Store wraps a pgx connection pool and hands out the table repositories.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, connString string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, errors.NewStorageError("failed to create connection pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewStorageError("failed to ping database", err)
	}

	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Jobs returns the jobs table repository.
func (s *Store) Jobs() *JobsRepository {
	return &JobsRepository{pool: s.pool, logger: s.logger}
}

// Occurrences returns the jobsoccurrences table repository.
func (s *Store) Occurrences() *OccurrenceRepository {
	return &OccurrenceRepository{pool: s.pool, logger: s.logger}
}

// CityErrors returns the city_error review-queue repository.
func (s *Store) CityErrors() *CityErrorRepository {
	return &CityErrorRepository{pool: s.pool, logger: s.logger}
}

// Lists returns the lists table repository.
func (s *Store) Lists() *ListsRepository {
	return &ListsRepository{pool: s.pool}
}

// Maintenance returns the maintenance gate repository.
func (s *Store) Maintenance() *MaintenanceGate {
	return &MaintenanceGate{pool: s.pool, logger: s.logger}
}

// Reporting returns the reporting table repository.
func (s *Store) Reporting() *ReportingRepository {
	return &ReportingRepository{pool: s.pool, logger: s.logger}
}

// EnsureSchema creates every table the pipeline relies on if missing,
// plus the single maintenance gate row.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS jobs (
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
);

CREATE TABLE IF NOT EXISTS jobsoccurrences (
	date_of_search DATE,
	day_of_week VARCHAR(20),
	region VARCHAR(120),
	job_search VARCHAR(30),
	technologie VARCHAR(120),
	occurrences INT
);

CREATE TABLE IF NOT EXISTS city_error (
	value VARCHAR(300),
	status VARCHAR(30)
);

CREATE TABLE IF NOT EXISTS lists (
	list VARCHAR(30) PRIMARY KEY,
	"values" TEXT
);

CREATE TABLE IF NOT EXISTS maintenance (
	status VARCHAR(30)
);

CREATE TABLE IF NOT EXISTS reporting (
	id SERIAL PRIMARY KEY,
	reporting_date DATE,
	scrap_number INT,
	job_count INT,
	success_scrap INT,
	duration VARCHAR(30),
	scrap_status VARCHAR(30),
	occurrences INT,
	daily_job_scrap INT,
	lambda_status VARCHAR(30),
	cities_to_add VARCHAR(10)
);

INSERT INTO maintenance (status)
SELECT 'available'
WHERE NOT EXISTS (SELECT 1 FROM maintenance);
`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return errors.NewStorageError("failed to ensure schema", err)
	}
	return nil
}
