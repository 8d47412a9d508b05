package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// EnsureProjectContainer creates the table holding project documents if it does not exist.
// id is the partition key; doc holds the full document.
func EnsureProjectContainer(ctx context.Context, pool *pgxpool.Pool, container string, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping container bootstrap")
		return nil
	}

	table := pgx.Identifier{container}.Sanitize()
	statement := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id  TEXT PRIMARY KEY,
    doc JSONB NOT NULL
)`, table)

	if _, err := pool.Exec(ctx, statement); err != nil {
		return fmt.Errorf("ensure container %s: %w", container, err)
	}

	logger.Info("project container ready", zap.String("container", container))
	return nil
}
