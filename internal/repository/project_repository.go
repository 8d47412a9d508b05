package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spec-kit/project-service/internal/domain"
)

// ProjectRepository is the persistence gateway for project documents keyed by id.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Replace(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
	// List returns every project. It is unbounded and only suitable for small containers.
	List(ctx context.Context) ([]domain.Project, error)
	Ping(ctx context.Context) error
}

// Kind classifies storage failures.
type Kind string

const (
	KindBackend  Kind = "backend"
	KindNotFound Kind = "not_found"
	KindConflict Kind = "conflict"
)

var (
	ErrNotFound = errors.New("project not found")
	ErrConflict = errors.New("project already exists")
)

// StorageError wraps a failed document store operation.
type StorageError struct {
	Op   string
	ID   string
	Kind Kind
	Err  error
}

func (e *StorageError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s projects: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s project %s: %v", e.Op, e.ID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of a storage failure. Unknown errors count as backend failures.
func KindOf(err error) Kind {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Kind
	}
	return KindBackend
}

func notFound(op, id string) error {
	return &StorageError{Op: op, ID: id, Kind: KindNotFound, Err: ErrNotFound}
}

func conflict(op, id string) error {
	return &StorageError{Op: op, ID: id, Kind: KindConflict, Err: ErrConflict}
}

func backend(op, id string, err error) error {
	return &StorageError{Op: op, ID: id, Kind: KindBackend, Err: err}
}

func sortByCreation(projects []domain.Project) {
	slices.SortFunc(projects, func(a, b domain.Project) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
