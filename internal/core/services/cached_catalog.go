package services

import (
	"context"
	"fmt"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/cache"
)

// cachedResourceCatalog wraps a ResourceCatalog with an in-memory TTL
// cache. Resources are immutable once published, so a cache hit can never
// be stale; the TTL only bounds memory.
type cachedResourceCatalog struct {
	base  ports.ResourceCatalog
	cache *cache.Cache[*domain.Resource]
}

func NewCachedResourceCatalog(base ports.ResourceCatalog, ttl time.Duration) ports.ResourceCatalog {
	return &cachedResourceCatalog{
		base:  base,
		cache: cache.New[*domain.Resource](ttl),
	}
}

func catalogKey(kind domain.ContentKind, id domain.EntityID) string {
	return fmt.Sprintf("resource:%s:%s", kind, id)
}

func (c *cachedResourceCatalog) Get(ctx context.Context, kind domain.ContentKind, id domain.EntityID) (*domain.Resource, error) {
	key := catalogKey(kind, id)
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}

	res, err := c.base.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, res)
	return res, nil
}

func (c *cachedResourceCatalog) Put(ctx context.Context, res *domain.Resource) error {
	if err := c.base.Put(ctx, res); err != nil {
		return err
	}
	c.cache.Set(catalogKey(res.Kind, res.EntityID), res)
	return nil
}
