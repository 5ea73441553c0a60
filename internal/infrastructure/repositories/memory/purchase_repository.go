package memory

import (
	"context"
	"fmt"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

type purchaseKey struct {
	email    string
	entityID domain.EntityID
}

type MemoryPurchaseStore struct {
	purchases map[purchaseKey]*domain.Purchase
	mu        sync.RWMutex
}

func NewMemoryPurchaseStore() *MemoryPurchaseStore {
	return &MemoryPurchaseStore{
		purchases: make(map[purchaseKey]*domain.Purchase),
	}
}

var _ ports.PurchaseStore = (*MemoryPurchaseStore)(nil)

func (r *MemoryPurchaseStore) FindCompleted(ctx context.Context, email string, entityID domain.EntityID) (*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.purchases[purchaseKey{email: email, entityID: entityID}]
	if !exists {
		return nil, domain.ErrPurchaseNotFound
	}

	cp := *p
	return &cp, nil
}

// Record stores a completed purchase. Used by seeding and tests; the
// checkout system owns the real write path.
func (r *MemoryPurchaseStore) Record(ctx context.Context, email string, purchase *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := purchaseKey{email: email, entityID: purchase.EntityID}
	if _, exists := r.purchases[key]; exists {
		return fmt.Errorf("purchase already recorded for %s/%s", email, purchase.EntityID)
	}

	cp := *purchase
	r.purchases[key] = &cp
	return nil
}
