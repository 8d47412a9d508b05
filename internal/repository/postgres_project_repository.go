package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

const pgUniqueViolation = "23505"

type postgresProjectRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresProjectRepository stores projects as JSONB documents in the container table.
func NewPostgresProjectRepository(pool *pgxpool.Pool, container string) ProjectRepository {
	return &postgresProjectRepository{pool: pool, table: pgx.Identifier{container}.Sanitize()}
}

func (r *postgresProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return backend("create", project.ID, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, r.table)
	if _, err := r.pool.Exec(ctx, query, project.ID, doc); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return conflict("create", project.ID)
		}
		return backend("create", project.ID, err)
	}
	return nil
}

func (r *postgresProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, r.table)

	var doc []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("read", id)
		}
		return nil, backend("read", id, err)
	}

	var project domain.Project
	if err := json.Unmarshal(doc, &project); err != nil {
		return nil, backend("read", id, err)
	}
	return &project, nil
}

func (r *postgresProjectRepository) Replace(ctx context.Context, project *domain.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return backend("replace", project.ID, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = $2 WHERE id = $1`, r.table)
	cmd, err := r.pool.Exec(ctx, query, project.ID, doc)
	if err != nil {
		return backend("replace", project.ID, err)
	}
	if cmd.RowsAffected() == 0 {
		return notFound("replace", project.ID)
	}
	return nil
}

func (r *postgresProjectRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return backend("delete", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return notFound("delete", id)
	}
	return nil
}

func (r *postgresProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s`, r.table)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, backend("list", "", err)
	}
	defer rows.Close()

	result := []domain.Project{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, backend("list", "", err)
		}
		var project domain.Project
		if err := json.Unmarshal(doc, &project); err != nil {
			return nil, backend("list", "", err)
		}
		result = append(result, project)
	}
	if err := rows.Err(); err != nil {
		return nil, backend("list", "", err)
	}

	sortByCreation(result)
	return result, nil
}

func (r *postgresProjectRepository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return r.pool.Ping(ctx)
}
