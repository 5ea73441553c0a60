package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/retry"

	"github.com/redis/go-redis/v9"
)

const resourceIndexKey = "mediagate:resource:index"

type RedisResourceCatalog struct {
	client *redis.Client
	retry  retry.Config
}

func NewRedisResourceCatalog(client *redis.Client) ports.ResourceCatalog {
	cfg := retry.DefaultConfig()
	cfg.NonRetryable = []error{domain.ErrResourceNotFound}
	return &RedisResourceCatalog{client: client, retry: cfg}
}

func (r *RedisResourceCatalog) key(kind domain.ContentKind, entityID domain.EntityID) string {
	return fmt.Sprintf("mediagate:resource:%s:%s", kind, entityID)
}

func (r *RedisResourceCatalog) Get(ctx context.Context, kind domain.ContentKind, entityID domain.EntityID) (*domain.Resource, error) {
	return retry.DoWithResult(ctx, r.retry, func() (*domain.Resource, error) {
		data, err := r.client.Get(ctx, r.key(kind, entityID)).Result()
		if err == redis.Nil {
			return nil, domain.ErrResourceNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get resource from Redis: %w", err)
		}

		var res domain.Resource
		if err := json.Unmarshal([]byte(data), &res); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resource: %w", err)
		}
		return &res, nil
	})
}

func (r *RedisResourceCatalog) Put(ctx context.Context, res *domain.Resource) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}

	key := r.key(res.Kind, res.EntityID)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, resourceIndexKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set resource in Redis: %w", err)
	}
	return nil
}
