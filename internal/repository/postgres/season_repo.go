package postgres

import (
	"context"

	"github.com/dom/war-planner/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type seasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *seasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Create(ctx context.Context, season *domain.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *seasonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Season, error) {
	var season domain.Season
	err := r.db.WithContext(ctx).First(&season, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) CreateTactic(ctx context.Context, tactic *domain.Tactic) error {
	return r.db.WithContext(ctx).Create(tactic).Error
}

func (r *seasonRepository) GetTactics(ctx context.Context, seasonID uuid.UUID) ([]*domain.Tactic, error) {
	var tactics []*domain.Tactic
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("min_tier ASC, name ASC").
		Find(&tactics).Error
	if err != nil {
		return nil, err
	}
	return tactics, nil
}
