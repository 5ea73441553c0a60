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

type RedisProductStore struct {
	client *redis.Client
	retry  retry.Config
}

func NewRedisProductStore(client *redis.Client) ports.ProductStore {
	cfg := retry.DefaultConfig()
	cfg.NonRetryable = []error{domain.ErrProductNotFound}
	return &RedisProductStore{client: client, retry: cfg}
}

func (r *RedisProductStore) key(kind domain.ContentKind, entityID domain.EntityID) string {
	return fmt.Sprintf("mediagate:product:%s:%s", kind, entityID)
}

func (r *RedisProductStore) Get(ctx context.Context, ref domain.ContentRef) (*domain.Product, error) {
	return retry.DoWithResult(ctx, r.retry, func() (*domain.Product, error) {
		data, err := r.client.Get(ctx, r.key(ref.Kind, ref.EntityID)).Result()
		if err == redis.Nil {
			return nil, domain.ErrProductNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get product from Redis: %w", err)
		}

		var p domain.Product
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product: %w", err)
		}
		return &p, nil
	})
}

func (r *RedisProductStore) Record(ctx context.Context, kind domain.ContentKind, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := r.client.Set(ctx, r.key(kind, product.EntityID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set product in Redis: %w", err)
	}
	return nil
}
