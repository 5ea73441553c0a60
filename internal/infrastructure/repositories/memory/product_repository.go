package memory

import (
	"context"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

type productKey struct {
	kind     domain.ContentKind
	entityID domain.EntityID
}

type MemoryProductStore struct {
	products map[productKey]*domain.Product
	mu       sync.RWMutex
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{
		products: make(map[productKey]*domain.Product),
	}
}

var _ ports.ProductStore = (*MemoryProductStore)(nil)

func (r *MemoryProductStore) Get(ctx context.Context, ref domain.ContentRef) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.products[productKey{kind: ref.Kind, entityID: ref.EntityID}]
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	cp := *p
	return &cp, nil
}

func (r *MemoryProductStore) Record(ctx context.Context, kind domain.ContentKind, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *product
	r.products[productKey{kind: kind, entityID: product.EntityID}] = &cp
	return nil
}
