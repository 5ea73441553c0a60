package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"gorm.io/gorm"
)

type PostgresSubscriptionStore struct {
	db *gorm.DB
}

func NewPostgresSubscriptionStore(db *gorm.DB) ports.SubscriptionStore {
	return &PostgresSubscriptionStore{db: db}
}

func (r *PostgresSubscriptionStore) FindActive(ctx context.Context, principalID domain.PrincipalID, now time.Time) (*domain.Subscription, error) {
	var row SubscriptionRow
	err := r.db.WithContext(ctx).
		Where("principal_id = ? AND start_date <= ? AND end_date >= ?", string(principalID), now, now).
		Order("end_date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	sub := &domain.Subscription{
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
	}
	if row.Benefits != "" {
		sub.Benefits = strings.Split(row.Benefits, ",")
	}
	return sub, nil
}
