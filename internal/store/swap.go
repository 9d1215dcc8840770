package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"datastats/internal/errors"
)

// swapTables promotes a staging table to the live name. Postgres runs DDL
// transactionally, so the rename pair and the drop commit as one unit and
// no reader ever sees the live name missing.
func swapTables(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger, live, staging string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return errors.NewStorageError("failed to begin swap transaction", err)
	}
	defer tx.Rollback(ctx)

	old := live + "_to_delete"
	steps := []string{
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", live, old),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", staging, live),
		fmt.Sprintf("DROP TABLE %s", old),
	}
	for _, stmt := range steps {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return errors.NewStorageError("failed to swap tables", err).
				WithContext("table", live).
				WithContext("statement", stmt)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewStorageError("failed to commit table swap", err).
			WithContext("table", live)
	}

	logger.InfoContext(ctx, "swapped staging table into place",
		slog.String("table", live))
	return nil
}
