package postgres

import (
	"context"
	"errors"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresResourceCatalog struct {
	db *gorm.DB
}

func NewPostgresResourceCatalog(db *gorm.DB) ports.ResourceCatalog {
	return &PostgresResourceCatalog{db: db}
}

func (r *PostgresResourceCatalog) Get(ctx context.Context, kind domain.ContentKind, entityID domain.EntityID) (*domain.Resource, error) {
	var row ResourceRow
	err := r.db.WithContext(ctx).
		Where("kind = ? AND entity_id = ?", string(kind), string(entityID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query resource: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresResourceCatalog) Put(ctx context.Context, res *domain.Resource) error {
	row := ResourceRow{
		ResourceID:  string(res.ID),
		Kind:        string(res.Kind),
		EntityID:    string(res.EntityID),
		OwnerID:     string(res.OwnerID),
		TotalBytes:  res.TotalBytes,
		ContentType: res.ContentType,
		Locator:     string(res.Locator),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "entity_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert resource: %w", err)
	}
	return nil
}
