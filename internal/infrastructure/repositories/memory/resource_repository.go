package memory

import (
	"context"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

type resourceKey struct {
	kind     domain.ContentKind
	entityID domain.EntityID
}

type MemoryResourceCatalog struct {
	resources map[resourceKey]*domain.Resource
	mu        sync.RWMutex
}

func NewMemoryResourceCatalog() *MemoryResourceCatalog {
	return &MemoryResourceCatalog{
		resources: make(map[resourceKey]*domain.Resource),
	}
}

var _ ports.ResourceCatalog = (*MemoryResourceCatalog)(nil)

func (r *MemoryResourceCatalog) Get(ctx context.Context, kind domain.ContentKind, entityID domain.EntityID) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, exists := r.resources[resourceKey{kind: kind, entityID: entityID}]
	if !exists {
		return nil, domain.ErrResourceNotFound
	}

	cp := *res
	return &cp, nil
}

// Put replaces any previous resource for the same content ref. Resources
// themselves are immutable; re-upload swaps the whole record.
func (r *MemoryResourceCatalog) Put(ctx context.Context, res *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *res
	r.resources[resourceKey{kind: res.Kind, entityID: res.EntityID}] = &cp
	return nil
}
