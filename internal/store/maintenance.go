package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"datastats/internal/errors"
	"datastats/pkg/contracts/domain"
)

// WaitConfig bounds a WaitUntilAvailable poll loop.
type WaitConfig struct {
	Attempts int
	Interval time.Duration
}

// MaintenanceGate reads and flips the single-row maintenance flag that
// keeps the ingest lambda and the rebuild pipeline from writing at the
// same time.
type MaintenanceGate struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Status returns the current gate value.
func (g *MaintenanceGate) Status(ctx context.Context) (domain.MaintenanceStatus, error) {
	var status string
	if err := g.pool.QueryRow(ctx, "SELECT status FROM maintenance").Scan(&status); err != nil {
		return "", errors.NewStorageError("failed to read maintenance status", err)
	}
	return domain.MaintenanceStatus(status), nil
}

// Set writes the gate value.
func (g *MaintenanceGate) Set(ctx context.Context, status domain.MaintenanceStatus) error {
	if _, err := g.pool.Exec(ctx,
		"UPDATE maintenance SET status = $1", string(status)); err != nil {
		return errors.NewStorageError("failed to set maintenance status", err).
			WithContext("status", string(status))
	}

	g.logger.InfoContext(ctx, "maintenance gate updated",
		slog.String("status", string(status)))
	return nil
}

// WaitUntilAvailable polls the gate until it reads available, pacing
// attempts with a rate limiter built from the configured interval. It
// fails after the attempt budget is spent so a stuck rebuild cannot hold
// the ingest hostage forever.
func (g *MaintenanceGate) WaitUntilAvailable(ctx context.Context, cfg WaitConfig) error {
	limiter := rate.NewLimiter(rate.Every(cfg.Interval), 1)

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		status, err := g.Status(ctx)
		if err != nil {
			return err
		}
		if status == domain.MaintenanceAvailable {
			return nil
		}

		g.logger.InfoContext(ctx, "database under maintenance, waiting",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.Attempts))

		if err := limiter.Wait(ctx); err != nil {
			return errors.NewStorageError("maintenance wait cancelled", err)
		}
	}

	return errors.NewStorageError("maintenance window did not close in time", nil).
		WithContext("attempts", cfg.Attempts).
		WithContext("interval", cfg.Interval.String())
}
