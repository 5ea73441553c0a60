package postgres

import (
	"context"
	"errors"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"gorm.io/gorm"
)

type PostgresProductStore struct {
	db *gorm.DB
}

func NewPostgresProductStore(db *gorm.DB) ports.ProductStore {
	return &PostgresProductStore{db: db}
}

func (r *PostgresProductStore) Get(ctx context.Context, ref domain.ContentRef) (*domain.Product, error) {
	var row ProductRow
	err := r.db.WithContext(ctx).
		Where("kind = ? AND entity_id = ?", string(ref.Kind), string(ref.EntityID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return row.toDomain(), nil
}
