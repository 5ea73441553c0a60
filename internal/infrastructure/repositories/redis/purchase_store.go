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

type RedisPurchaseStore struct {
	client *redis.Client
	retry  retry.Config
}

func NewRedisPurchaseStore(client *redis.Client) ports.PurchaseStore {
	cfg := retry.DefaultConfig()
	cfg.NonRetryable = []error{domain.ErrPurchaseNotFound}
	return &RedisPurchaseStore{client: client, retry: cfg}
}

func (r *RedisPurchaseStore) key(email string, entityID domain.EntityID) string {
	return fmt.Sprintf("mediagate:purchase:%s:%s", email, entityID)
}

func (r *RedisPurchaseStore) FindCompleted(ctx context.Context, email string, entityID domain.EntityID) (*domain.Purchase, error) {
	return retry.DoWithResult(ctx, r.retry, func() (*domain.Purchase, error) {
		data, err := r.client.Get(ctx, r.key(email, entityID)).Result()
		if err == redis.Nil {
			return nil, domain.ErrPurchaseNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get purchase from Redis: %w", err)
		}

		var p domain.Purchase
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal purchase: %w", err)
		}
		return &p, nil
	})
}

// Record mirrors a completed purchase into Redis. The checkout system owns
// the write path; this exists for seeding and replication consumers.
func (r *RedisPurchaseStore) Record(ctx context.Context, email string, purchase *domain.Purchase) error {
	data, err := json.Marshal(purchase)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase: %w", err)
	}
	if err := r.client.Set(ctx, r.key(email, purchase.EntityID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set purchase in Redis: %w", err)
	}
	return nil
}
