package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/graphql-go/graphql"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/project-service/internal/auth"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
	"github.com/spec-kit/project-service/internal/service"
)

var ada = auth.Claims{"preferred_username": "ada@example.com", "sub": "subject-1", "tid": "tenant-123"}

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	svc := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo: repository.NewRedisProjectRepository(client, "projects"),
		Dispatcher:  events.NewInMemoryDispatcher(zap.NewNop()),
	})
	schema, err := NewSchema(NewResolver(svc, zap.NewNop()))
	require.NoError(t, err)
	return schema
}

func run(t *testing.T, schema graphql.Schema, ctx context.Context, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func data(t *testing.T, res *graphql.Result) map[string]interface{} {
	t.Helper()
	require.Empty(t, res.Errors)
	m, ok := res.Data.(map[string]interface{})
	require.True(t, ok, "unexpected data %#v", res.Data)
	return m
}

func TestResolver_PublicFields(t *testing.T) {
	schema := newTestSchema(t)

	res := run(t, schema, context.Background(), `{ hello whoami }`, nil)
	got := data(t, res)
	assert.Equal(t, "Hello World! This endpoint doesn't require authentication.", got["hello"])
	assert.Equal(t, "Not authenticated", got["whoami"])

	res = run(t, schema, auth.WithClaims(context.Background(), ada), `{ whoami }`, nil)
	assert.Equal(t, "Authenticated as: ada@example.com", data(t, res)["whoami"])

	res = run(t, schema, auth.WithClaims(context.Background(), auth.Claims{"sub": "x"}), `{ whoami }`, nil)
	assert.Equal(t, "Authenticated as: Unknown user", data(t, res)["whoami"])
}

func TestResolver_ProtectedFieldsRequireUser(t *testing.T) {
	schema := newTestSchema(t)
	ctx := context.Background()

	cases := map[string]string{
		"projects":      `{ projects { id } }`,
		"getProject":    `{ getProject(projectId: "p1") { id } }`,
		"createProject": `mutation { createProject(name: "a", description: "b") { id } }`,
		"updateProject": `mutation { updateProject(projectId: "p1", name: "a") { id } }`,
		"deleteProject": `mutation { deleteProject(projectId: "p1") }`,
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			res := run(t, schema, ctx, query, nil)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, "Authentication required", res.Errors[0].Message)
		})
	}

	res := run(t, schema, auth.WithClaims(ctx, ada), `{ projects { id } }`, nil)
	assert.Empty(t, data(t, res)["projects"])
}

func TestResolver_ProjectLifecycle(t *testing.T) {
	schema := newTestSchema(t)
	ctx := auth.WithClaims(context.Background(), ada)

	res := run(t, schema, ctx, `mutation($n: String!, $d: String!) {
		createProject(name: $n, description: $d) { id name description createdAt updatedAt }
	}`, map[string]interface{}{"n": "Apollo", "d": "Moon program"})
	created := data(t, res)["createProject"].(map[string]interface{})
	id := created["id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, "Apollo", created["name"])
	assert.Equal(t, created["createdAt"], created["updatedAt"])
	_, err := time.Parse(time.RFC3339Nano, created["createdAt"].(string))
	require.NoError(t, err)

	vars := map[string]interface{}{"id": id}
	res = run(t, schema, ctx, `query($id: String!) { getProject(projectId: $id) { name description } }`, vars)
	assert.Equal(t, map[string]interface{}{"name": "Apollo", "description": "Moon program"}, data(t, res)["getProject"])

	res = run(t, schema, ctx, `mutation($id: String!) {
		updateProject(projectId: $id, description: "Lunar landing") { name description createdAt updatedAt }
	}`, vars)
	updated := data(t, res)["updateProject"].(map[string]interface{})
	assert.Equal(t, "Apollo", updated["name"])
	assert.Equal(t, "Lunar landing", updated["description"])
	assert.Equal(t, created["createdAt"], updated["createdAt"])
	before, err := time.Parse(time.RFC3339Nano, created["updatedAt"].(string))
	require.NoError(t, err)
	after, err := time.Parse(time.RFC3339Nano, updated["updatedAt"].(string))
	require.NoError(t, err)
	assert.True(t, after.After(before), "updatedAt %s not after %s", after, before)

	res = run(t, schema, ctx, `{ projects { id name } }`, nil)
	assert.Equal(t, []interface{}{map[string]interface{}{"id": id, "name": "Apollo"}}, data(t, res)["projects"])

	res = run(t, schema, ctx, `mutation($id: String!) { deleteProject(projectId: $id) }`, vars)
	assert.Equal(t, true, data(t, res)["deleteProject"])

	res = run(t, schema, ctx, `query($id: String!) { getProject(projectId: $id) { id } }`, vars)
	assert.Nil(t, data(t, res)["getProject"])

	res = run(t, schema, ctx, `mutation($id: String!) { deleteProject(projectId: $id) }`, vars)
	assert.Equal(t, false, data(t, res)["deleteProject"])

	res = run(t, schema, ctx, `mutation($id: String!) { updateProject(projectId: $id, name: "x") { id } }`, vars)
	assert.Nil(t, data(t, res)["updateProject"])
}

func TestResolver_UpdateWithEmptyStringApplies(t *testing.T) {
	schema := newTestSchema(t)
	ctx := auth.WithClaims(context.Background(), ada)

	res := run(t, schema, ctx, `mutation { createProject(name: "a", description: "b") { id } }`, nil)
	id := data(t, res)["createProject"].(map[string]interface{})["id"]

	res = run(t, schema, ctx, `mutation($id: String!) { updateProject(projectId: $id, description: "") { name description } }`,
		map[string]interface{}{"id": id})
	assert.Equal(t, map[string]interface{}{"name": "a", "description": ""}, data(t, res)["updateProject"])
}

type brokenProjects struct {
	err error
}

func (b brokenProjects) List(context.Context) ([]domain.Project, error) { return nil, b.err }
func (b brokenProjects) Get(context.Context, string) (*domain.Project, error) {
	return nil, b.err
}
func (b brokenProjects) Create(context.Context, string, string) (*domain.Project, error) {
	return nil, b.err
}
func (b brokenProjects) Update(context.Context, string, domain.ProjectPatch) (*domain.Project, error) {
	return nil, b.err
}
func (b brokenProjects) Delete(context.Context, string) error { return b.err }

func TestResolver_BackendFailuresAreCollapsedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	backendErr := &repository.StorageError{Op: "get", ID: "p1", Kind: repository.KindBackend, Err: errors.New("connection refused")}
	schema, err := NewSchema(NewResolver(brokenProjects{err: backendErr}, zap.New(core)))
	require.NoError(t, err)
	ctx := auth.WithClaims(context.Background(), ada)

	res := run(t, schema, ctx, `{ getProject(projectId: "p1") { id } }`, nil)
	assert.Nil(t, data(t, res)["getProject"])

	res = run(t, schema, ctx, `mutation { deleteProject(projectId: "p1") }`, nil)
	assert.Equal(t, false, data(t, res)["deleteProject"])

	failures := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, failures, 2)
	assert.Equal(t, "get project failed", failures[0].Message)
	assert.Equal(t, "backend", failures[0].ContextMap()["kind"])

	res = run(t, schema, ctx, `{ projects { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "connection refused")
}
