package ports

import (
	"context"
	"time"

	"mediagate/internal/core/domain"
)

// PurchaseStore reads completed purchase records from the checkout system.
// Implementations return domain.ErrPurchaseNotFound when no record exists and
// wrap transport failures in domain.ErrStoreUnavailable.
type PurchaseStore interface {
	FindCompleted(ctx context.Context, email string, entityID domain.EntityID) (*domain.Purchase, error)
}

// SubscriptionStore reads the subscription covering now for a principal,
// if any. Not-found and unavailable follow the PurchaseStore conventions.
type SubscriptionStore interface {
	FindActive(ctx context.Context, principalID domain.PrincipalID, now time.Time) (*domain.Subscription, error)
}

// ProductStore reads catalog records (price, creator, visibility).
type ProductStore interface {
	Get(ctx context.Context, ref domain.ContentRef) (*domain.Product, error)
}

// ResourceCatalog maps content references to published streamable resources.
type ResourceCatalog interface {
	Get(ctx context.Context, kind domain.ContentKind, entityID domain.EntityID) (*domain.Resource, error)
	Put(ctx context.Context, res *domain.Resource) error
}
