package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/retry"

	"github.com/redis/go-redis/v9"
)

type RedisSubscriptionStore struct {
	client *redis.Client
	retry  retry.Config
}

func NewRedisSubscriptionStore(client *redis.Client) ports.SubscriptionStore {
	cfg := retry.DefaultConfig()
	cfg.NonRetryable = []error{domain.ErrSubscriptionNotFound}
	return &RedisSubscriptionStore{client: client, retry: cfg}
}

func (r *RedisSubscriptionStore) key(principalID domain.PrincipalID) string {
	return "mediagate:subscription:" + string(principalID)
}

func (r *RedisSubscriptionStore) FindActive(ctx context.Context, principalID domain.PrincipalID, now time.Time) (*domain.Subscription, error) {
	return retry.DoWithResult(ctx, r.retry, func() (*domain.Subscription, error) {
		entries, err := r.client.LRange(ctx, r.key(principalID), 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions from Redis: %w", err)
		}

		for _, entry := range entries {
			var s domain.Subscription
			if err := json.Unmarshal([]byte(entry), &s); err != nil {
				return nil, fmt.Errorf("failed to unmarshal subscription: %w", err)
			}
			if s.Covers(now) {
				return &s, nil
			}
		}
		return nil, domain.ErrSubscriptionNotFound
	})
}

func (r *RedisSubscriptionStore) Record(ctx context.Context, principalID domain.PrincipalID, sub *domain.Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}
	if err := r.client.RPush(ctx, r.key(principalID), data).Err(); err != nil {
		return fmt.Errorf("failed to push subscription to Redis: %w", err)
	}
	return nil
}
