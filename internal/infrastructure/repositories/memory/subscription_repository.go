package memory

import (
	"context"
	"sync"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

type MemorySubscriptionStore struct {
	subs map[domain.PrincipalID][]*domain.Subscription
	mu   sync.RWMutex
}

func NewMemorySubscriptionStore() *MemorySubscriptionStore {
	return &MemorySubscriptionStore{
		subs: make(map[domain.PrincipalID][]*domain.Subscription),
	}
}

var _ ports.SubscriptionStore = (*MemorySubscriptionStore)(nil)

func (r *MemorySubscriptionStore) FindActive(ctx context.Context, principalID domain.PrincipalID, now time.Time) (*domain.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.subs[principalID] {
		if s.Covers(now) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrSubscriptionNotFound
}

func (r *MemorySubscriptionStore) Record(ctx context.Context, principalID domain.PrincipalID, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *sub
	r.subs[principalID] = append(r.subs[principalID], &cp)
	return nil
}
