package graph

import (
	"context"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/auth"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
)

const helloMessage = "Hello World! This endpoint doesn't require authentication."

// ProjectService is the business layer the resolvers delegate to.
type ProjectService interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, name, description string) (*domain.Project, error)
	Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// Resolver implements the Query and Mutation fields.
//
// Protected fields return auth.ErrAuthenticationRequired, which surfaces as a top-level
// GraphQL error. getProject and updateProject report any storage failure as null and
// deleteProject as false; the failure kind is only visible in the logs.
type Resolver struct {
	projects ProjectService
	logger   *zap.Logger
}

// NewResolver constructs the resolver set.
func NewResolver(projects ProjectService, logger *zap.Logger) *Resolver {
	return &Resolver{projects: projects, logger: logger}
}

// Hello resolves Query.hello. Public.
func (r *Resolver) Hello(graphql.ResolveParams) (interface{}, error) {
	return helloMessage, nil
}

// Whoami resolves Query.whoami. Public.
func (r *Resolver) Whoami(p graphql.ResolveParams) (interface{}, error) {
	claims, ok := auth.ClaimsFromContext(p.Context)
	if !ok {
		return "Not authenticated", nil
	}
	return "Authenticated as: " + claims.Username(), nil
}

// Projects resolves Query.projects.
func (r *Resolver) Projects(p graphql.ResolveParams) (interface{}, error) {
	if err := requireUser(p.Context); err != nil {
		return nil, err
	}
	projects, err := r.projects.List(p.Context)
	if err != nil {
		r.logger.Error("list projects failed", zap.Error(err))
		return nil, err
	}
	return dto.NewProjects(projects), nil
}

// GetProject resolves Query.getProject; null when the project cannot be loaded.
func (r *Resolver) GetProject(p graphql.ResolveParams) (interface{}, error) {
	if err := requireUser(p.Context); err != nil {
		return nil, err
	}
	id := stringArg(p, "projectId")
	project, err := r.projects.Get(p.Context, id)
	if err != nil {
		r.logStorageFailure("get project", id, err)
		return nil, nil
	}
	return dto.NewProject(*project), nil
}

// CreateProject resolves Mutation.createProject.
func (r *Resolver) CreateProject(p graphql.ResolveParams) (interface{}, error) {
	if err := requireUser(p.Context); err != nil {
		return nil, err
	}
	project, err := r.projects.Create(p.Context, stringArg(p, "name"), stringArg(p, "description"))
	if err != nil {
		r.logger.Error("create project failed", zap.Error(err))
		return nil, err
	}
	return dto.NewProject(*project), nil
}

// UpdateProject resolves Mutation.updateProject. Omitted or null arguments leave the field unchanged.
func (r *Resolver) UpdateProject(p graphql.ResolveParams) (interface{}, error) {
	if err := requireUser(p.Context); err != nil {
		return nil, err
	}
	id := stringArg(p, "projectId")
	patch := domain.ProjectPatch{
		Name:        optionalStringArg(p, "name"),
		Description: optionalStringArg(p, "description"),
	}
	project, err := r.projects.Update(p.Context, id, patch)
	if err != nil {
		r.logStorageFailure("update project", id, err)
		return nil, nil
	}
	return dto.NewProject(*project), nil
}

// DeleteProject resolves Mutation.deleteProject; false when nothing was deleted.
func (r *Resolver) DeleteProject(p graphql.ResolveParams) (interface{}, error) {
	if err := requireUser(p.Context); err != nil {
		return nil, err
	}
	id := stringArg(p, "projectId")
	if err := r.projects.Delete(p.Context, id); err != nil {
		r.logStorageFailure("delete project", id, err)
		return false, nil
	}
	return true, nil
}

func (r *Resolver) logStorageFailure(op, id string, err error) {
	kind := repository.KindOf(err)
	fields := []zap.Field{zap.String("project_id", id), zap.String("kind", string(kind)), zap.Error(err)}
	if kind == repository.KindNotFound {
		r.logger.Debug(op+" found nothing", fields...)
		return
	}
	r.logger.Error(op+" failed", fields...)
}

func requireUser(ctx context.Context) error {
	if _, ok := auth.ClaimsFromContext(ctx); !ok {
		return auth.ErrAuthenticationRequired
	}
	return nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

func optionalStringArg(p graphql.ResolveParams, name string) *string {
	v, ok := p.Args[name].(string)
	if !ok {
		return nil
	}
	return &v
}
