package dto

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

// TimestampLayout formats createdAt and updatedAt on the public API.
const TimestampLayout = time.RFC3339Nano

// Project is the public GraphQL shape of a project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// NewProject maps a persisted project to its public representation.
func NewProject(p domain.Project) Project {
	return Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt:   p.UpdatedAt.UTC().Format(TimestampLayout),
	}
}

// NewProjects maps a list; the result is never nil.
func NewProjects(projects []domain.Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewProject(p))
	}
	return out
}
