package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/project-service/internal/domain"
)

type redisProjectRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisProjectRepository stores each project as a JSON string under "<container>:<id>"
// and tracks ids in the "<container>:ids" set.
func NewRedisProjectRepository(client *redis.Client, container string) ProjectRepository {
	return &redisProjectRepository{client: client, prefix: container}
}

func (r *redisProjectRepository) key(id string) string {
	return r.prefix + ":" + id
}

func (r *redisProjectRepository) indexKey() string {
	return r.prefix + ":ids"
}

func (r *redisProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return backend("create", project.ID, err)
	}

	// Document and index entry are written in one MULTI. On conflict the SADD is a no-op
	// because the existing document's id is already indexed.
	pipe := r.client.TxPipeline()
	setNX := pipe.SetNX(ctx, r.key(project.ID), doc, 0)
	pipe.SAdd(ctx, r.indexKey(), project.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return backend("create", project.ID, err)
	}
	if !setNX.Val() {
		return conflict("create", project.ID)
	}
	return nil
}

func (r *redisProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	doc, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound("read", id)
	}
	if err != nil {
		return nil, backend("read", id, err)
	}

	var project domain.Project
	if err := json.Unmarshal(doc, &project); err != nil {
		return nil, backend("read", id, err)
	}
	return &project, nil
}

func (r *redisProjectRepository) Replace(ctx context.Context, project *domain.Project) error {
	doc, err := json.Marshal(project)
	if err != nil {
		return backend("replace", project.ID, err)
	}

	replaced, err := r.client.SetXX(ctx, r.key(project.ID), doc, 0).Result()
	if err != nil {
		return backend("replace", project.ID, err)
	}
	if !replaced {
		return notFound("replace", project.ID)
	}
	return nil
}

func (r *redisProjectRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return backend("delete", id, err)
	}
	if del.Val() == 0 {
		return notFound("delete", id)
	}
	return nil
}

func (r *redisProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, backend("list", "", err)
	}

	result := []domain.Project{}
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, backend("list", "", err)
	}

	for _, value := range values {
		doc, ok := value.(string)
		if !ok {
			// index entry without a document
			continue
		}
		var project domain.Project
		if err := json.Unmarshal([]byte(doc), &project); err != nil {
			return nil, backend("list", "", err)
		}
		result = append(result, project)
	}

	sortByCreation(result)
	return result, nil
}

func (r *redisProjectRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}
