package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/project-service/internal/auth"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
)

// ProjectService coordinates project lifecycle operations.
type ProjectService struct {
	projects   repository.ProjectRepository
	dispatcher events.Dispatcher
	now        func() time.Time
	newID      func() string
}

// ProjectDependencies bundles collaborators for the project service.
type ProjectDependencies struct {
	ProjectRepo repository.ProjectRepository
	Dispatcher  events.Dispatcher
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewProjectService builds the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ProjectService{
		projects:   deps.ProjectRepo,
		dispatcher: deps.Dispatcher,
		now:        func() time.Time { return clock().UTC() },
		newID:      uuid.NewString,
	}
}

// List returns every stored project.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// Get loads a single project.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// Create stores a new project with a generated id; createdAt and updatedAt are equal.
func (s *ProjectService) Create(ctx context.Context, name, description string) (*domain.Project, error) {
	now := s.now()
	project := &domain.Project{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.publish(ctx, events.EventProjectCreated, project.ID, now, nil)
	return project, nil
}

// Update applies the supplied fields and refreshes updatedAt.
func (s *ProjectService) Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	fields := patch.Apply(project)

	// updatedAt must move strictly forward even if the clock has not
	now := s.now()
	if !now.After(project.UpdatedAt) {
		now = project.UpdatedAt.Add(time.Nanosecond)
	}
	project.UpdatedAt = now

	if err := s.projects.Replace(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.publish(ctx, events.EventProjectUpdated, project.ID, now, events.ProjectUpdatedPayload{Fields: fields})
	return project, nil
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.publish(ctx, events.EventProjectDeleted, id, s.now(), nil)
	return nil
}

func (s *ProjectService) publish(ctx context.Context, eventType events.EventType, projectID string, at time.Time, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, projectID, actorFromContext(ctx), at, payload))
}

func actorFromContext(ctx context.Context) events.Actor {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return events.Actor{Username: "anonymous"}
	}
	return events.Actor{
		Username: claims.Username(),
		Subject:  claims.Subject(),
		TenantID: claims.TenantID(),
	}
}
