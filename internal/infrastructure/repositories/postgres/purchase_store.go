package postgres

import (
	"context"
	"errors"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"gorm.io/gorm"
)

type PostgresPurchaseStore struct {
	db *gorm.DB
}

func NewPostgresPurchaseStore(db *gorm.DB) ports.PurchaseStore {
	return &PostgresPurchaseStore{db: db}
}

func (r *PostgresPurchaseStore) FindCompleted(ctx context.Context, email string, entityID domain.EntityID) (*domain.Purchase, error) {
	var row PurchaseRow
	err := r.db.WithContext(ctx).
		Where("email = ? AND entity_id = ?", email, string(entityID)).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase: %w", err)
	}
	return row.toDomain(), nil
}
