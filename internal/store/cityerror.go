package store

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datastats/internal/errors"
	"datastats/pkg/contracts/domain"
)

// CityErrorRepository manages the city_error review queue of location
// strings the resolver could not place.
type CityErrorRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// InsertToProcess queues unresolved location values for manual review,
// skipping any value the table already carries under either status.
func (r *CityErrorRepository) InsertToProcess(ctx context.Context, values []string) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	existing, err := r.allValues(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}

	var rows [][]any
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		rows = append(rows, []any{v, string(domain.CityStatusToProcess)})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"city_error"},
		[]string{"value", "status"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, errors.NewStorageError("failed to queue unresolved cities", err)
	}

	r.logger.InfoContext(ctx, "queued unresolved cities for review", slog.Int64("rows", n))
	return n, nil
}

// FetchValues returns the queued values carrying the given status.
func (r *CityErrorRepository) FetchValues(ctx context.Context, status domain.UnresolvedCityStatus) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT value FROM city_error WHERE status = $1 ORDER BY value", string(status))
	if err != nil {
		return nil, errors.NewStorageError("failed to fetch review queue", err)
	}
	defer rows.Close()

	return scanValues(rows)
}

// MarkProcessed flips the given values to the processed status once the
// geography table has been extended to cover them.
func (r *CityErrorRepository) MarkProcessed(ctx context.Context, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx,
		"UPDATE city_error SET status = $1 WHERE value = ANY($2)",
		string(domain.CityStatusProcessed), values); err != nil {
		return errors.NewStorageError("failed to mark cities processed", err)
	}
	return nil
}

// RebuildDeduplicated rewrites the queue keeping one row per value; a
// processed row wins over a pending one for the same value.
func (r *CityErrorRepository) RebuildDeduplicated(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.NewStorageError("failed to begin queue rebuild", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, "SELECT value, status FROM city_error ORDER BY value")
	if err != nil {
		return errors.NewStorageError("failed to read review queue", err)
	}
	entries, err := scanUnresolved(rows)
	if err != nil {
		return err
	}

	byValue := make(map[string]domain.UnresolvedCityStatus, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		current, ok := byValue[e.Value]
		if !ok {
			order = append(order, e.Value)
			byValue[e.Value] = e.Status
			continue
		}
		if current == domain.CityStatusToProcess && e.Status == domain.CityStatusProcessed {
			byValue[e.Value] = e.Status
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM city_error"); err != nil {
		return errors.NewStorageError("failed to clear review queue", err)
	}

	deduped := make([][]any, 0, len(order))
	for _, v := range order {
		deduped = append(deduped, []any{v, string(byValue[v])})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"city_error"},
		[]string{"value", "status"},
		pgx.CopyFromRows(deduped)); err != nil {
		return errors.NewStorageError("failed to rewrite review queue", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewStorageError("failed to commit queue rebuild", err)
	}

	r.logger.InfoContext(ctx, "rebuilt review queue",
		slog.Int("before", len(entries)), slog.Int("after", len(deduped)))
	return nil
}

func (r *CityErrorRepository) allValues(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT value FROM city_error")
	if err != nil {
		return nil, errors.NewStorageError("failed to read review queue values", err)
	}
	defer rows.Close()

	return scanValues(rows)
}

func scanValues(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.NewStorageError("failed to scan queue value", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read queue rows", err)
	}
	return out, nil
}

func scanUnresolved(rows pgx.Rows) ([]domain.UnresolvedCity, error) {
	defer rows.Close()
	var out []domain.UnresolvedCity
	for rows.Next() {
		var e domain.UnresolvedCity
		var status string
		if err := rows.Scan(&e.Value, &status); err != nil {
			return nil, errors.NewStorageError("failed to scan queue entry", err)
		}
		e.Status = domain.UnresolvedCityStatus(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to read queue entries", err)
	}
	return out, nil
}
