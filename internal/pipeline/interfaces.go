package pipeline

import (
	"context"
	"time"

	"datastats/internal/store"
	"datastats/pkg/contracts/domain"
)

// The operations depend on narrow store interfaces so tests can run them
// against in-memory fakes. *store.Store's repositories satisfy all of them.

// JobsStore is the jobs-table surface the operations use.
type JobsStore interface {
	InsertBatch(ctx context.Context, listings []domain.Listing) error
	DeleteMonthlyDuplicates(ctx context.Context, date time.Time) (int64, error)
	FetchDay(ctx context.Context, date time.Time, scrapNumber int) ([]domain.Listing, error)
	FetchAll(ctx context.Context) ([]domain.Listing, error)
	UpdateGeography(ctx context.Context, rawCity, city, region string) (int64, error)
	StageReplacement(ctx context.Context, listings []domain.Listing) error
	DeleteStagedWithoutTechnos(ctx context.Context) (int64, error)
	SwapStaging(ctx context.Context) error
}

// OccurrenceStore is the jobsoccurrences-table surface.
type OccurrenceStore interface {
	FetchDay(ctx context.Context, date time.Time) ([]domain.Occurrence, error)
	DeleteDay(ctx context.Context, date time.Time) error
	InsertBatch(ctx context.Context, occurrences []domain.Occurrence) error
	StageReplacement(ctx context.Context, occurrences []domain.Occurrence) error
	SwapStaging(ctx context.Context) error
}

// CityErrorStore is the review-queue surface.
type CityErrorStore interface {
	InsertToProcess(ctx context.Context, values []string) (int64, error)
	FetchValues(ctx context.Context, status domain.UnresolvedCityStatus) ([]string, error)
	MarkProcessed(ctx context.Context, values []string) error
	RebuildDeduplicated(ctx context.Context) error
}

// ListsStore reads the curated name lists.
type ListsStore interface {
	Get(ctx context.Context, name string) (string, error)
}

// Gate is the cross-process maintenance lock.
type Gate interface {
	Set(ctx context.Context, status domain.MaintenanceStatus) error
	WaitUntilAvailable(ctx context.Context, cfg store.WaitConfig) error
}

// ReportingStore records run outcomes.
type ReportingStore interface {
	SeedDay(ctx context.Context, date time.Time, scrapsPerDay int) error
	UpdateIngestOutcome(ctx context.Context, date time.Time, scrapNumber, jobCount, occurrences, dailyJobScrap int) error
	MarkFailure(ctx context.Context, date time.Time, scrapNumber int) error
	UpdateCitiesToAdd(ctx context.Context, date time.Time, citiesQueued bool) error
}
