package postgres

import (
	"time"

	"mediagate/internal/core/domain"
)

// PurchaseRow mirrors completed purchase records replicated from checkout.
type PurchaseRow struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"index:idx_purchase_lookup,priority:1;size:255"`
	EntityID       string `gorm:"index:idx_purchase_lookup,priority:2;size:100"`
	LifetimeAccess bool
	AccessUntil    *time.Time
	CreatedAt      time.Time
}

func (PurchaseRow) TableName() string { return "purchases" }

func (r PurchaseRow) toDomain() *domain.Purchase {
	return &domain.Purchase{
		EntityID:       domain.EntityID(r.EntityID),
		LifetimeAccess: r.LifetimeAccess,
		AccessUntil:    r.AccessUntil,
	}
}

// SubscriptionRow mirrors subscription periods with their plan benefit flags.
type SubscriptionRow struct {
	ID          uint   `gorm:"primaryKey"`
	PrincipalID string `gorm:"index;size:100"`
	Benefits    string `gorm:"size:500"`
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
}

func (SubscriptionRow) TableName() string { return "subscriptions" }

// ProductRow mirrors the catalog record behind a content ref.
type ProductRow struct {
	ID         uint   `gorm:"primaryKey"`
	Kind       string `gorm:"index:idx_product_lookup,priority:1;size:32"`
	EntityID   string `gorm:"index:idx_product_lookup,priority:2;size:100"`
	CreatorID  string `gorm:"size:100"`
	PriceCents int64
	Public     bool
	CreatedAt  time.Time
}

func (ProductRow) TableName() string { return "products" }

func (r ProductRow) toDomain() *domain.Product {
	return &domain.Product{
		EntityID:   domain.EntityID(r.EntityID),
		CreatorID:  domain.PrincipalID(r.CreatorID),
		PriceCents: r.PriceCents,
		Public:     r.Public,
	}
}

// ResourceRow stores published resource metadata. Rows are immutable; a
// re-upload upserts the (kind, entity_id) slot with a fresh resource.
type ResourceRow struct {
	ResourceID  string `gorm:"primaryKey;size:64"`
	Kind        string `gorm:"uniqueIndex:idx_resource_ref,priority:1;size:32"`
	EntityID    string `gorm:"uniqueIndex:idx_resource_ref,priority:2;size:100"`
	OwnerID     string `gorm:"size:100"`
	TotalBytes  uint64
	ContentType string `gorm:"size:255"`
	Locator     string `gorm:"size:128"`
	CreatedAt   time.Time
}

func (ResourceRow) TableName() string { return "resources" }

func (r ResourceRow) toDomain() *domain.Resource {
	return &domain.Resource{
		ID:          domain.ResourceID(r.ResourceID),
		EntityID:    domain.EntityID(r.EntityID),
		Kind:        domain.ContentKind(r.Kind),
		OwnerID:     domain.PrincipalID(r.OwnerID),
		TotalBytes:  r.TotalBytes,
		ContentType: r.ContentType,
		Locator:     domain.Locator(r.Locator),
	}
}
