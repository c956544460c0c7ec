package postgres

import (
	"context"

	"github.com/dom/war-planner/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type extraRepository struct {
	db *gorm.DB
}

func NewExtraRepository(db *gorm.DB) *extraRepository {
	return &extraRepository{db: db}
}

func (r *extraRepository) Create(ctx context.Context, extra *domain.ExtraChampion) error {
	return r.db.WithContext(ctx).Create(extra).Error
}

func (r *extraRepository) GetByWar(ctx context.Context, warID uuid.UUID, bg domain.Battlegroup) ([]*domain.ExtraChampion, error) {
	var extras []*domain.ExtraChampion
	err := r.db.WithContext(ctx).
		Where("war_id = ? AND battlegroup = ?", warID, bg).
		Order("created_at ASC").
		Find(&extras).Error
	if err != nil {
		return nil, err
	}
	return extras, nil
}

func (r *extraRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtraChampion, error) {
	var extra domain.ExtraChampion
	err := r.db.WithContext(ctx).First(&extra, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &extra, nil
}

func (r *extraRepository) Delete(ctx context.Context, warID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("war_id = ? AND id = ?", warID, id).
		Delete(&domain.ExtraChampion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
