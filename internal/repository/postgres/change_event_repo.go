package postgres

import (
	"context"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type changeEventRepository struct {
	db *gorm.DB
}

func NewChangeEventRepository(db *gorm.DB) *changeEventRepository {
	return &changeEventRepository{db: db}
}

func (r *changeEventRepository) Create(ctx context.Context, event *domain.ChangeEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *changeEventRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChangeEvent, error) {
	var events []*domain.ChangeEvent
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
