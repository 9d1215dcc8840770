package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datastats/internal/errors"
)

// ListsRepository reads the curated collections (technology names, short
// names, alias map) stored as JSON text in the lists table.
type ListsRepository struct {
	pool *pgxpool.Pool
}

// Get returns the raw JSON payload of one named list.
func (r *ListsRepository) Get(ctx context.Context, name string) (string, error) {
	var payload string
	err := r.pool.QueryRow(ctx,
		`SELECT "values" FROM lists WHERE list = $1`, name).Scan(&payload)
	if err == pgx.ErrNoRows {
		return "", errors.NewNotFoundError("list").WithContext("list", name)
	}
	if err != nil {
		return "", errors.NewStorageError("failed to read list", err).
			WithContext("list", name)
	}
	return payload, nil
}

// Put upserts one named list payload.
func (r *ListsRepository) Put(ctx context.Context, name, payload string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO lists (list, "values") VALUES ($1, $2)
ON CONFLICT (list) DO UPDATE SET "values" = EXCLUDED."values"`, name, payload)
	if err != nil {
		return errors.NewStorageError("failed to write list", err).
			WithContext("list", name)
	}
	return nil
}
