package postgres

import (
	"context"

	"github.com/dom/war-planner/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *planRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *domain.DefensePlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DefensePlan, error) {
	var plan domain.DefensePlan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) List(ctx context.Context) ([]*domain.DefensePlan, error) {
	var plans []*domain.DefensePlan
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

type placementRepository struct {
	db *gorm.DB
}

func NewPlacementRepository(db *gorm.DB) *placementRepository {
	return &placementRepository{db: db}
}

func (r *placementRepository) GetByPlan(ctx context.Context, planID uuid.UUID, bg domain.Battlegroup) ([]*domain.Placement, error) {
	var placements []*domain.Placement
	err := r.db.WithContext(ctx).
		Preload("Defender").
		Preload("Player").
		Where("plan_id = ? AND battlegroup = ?", planID, bg).
		Order("node_number ASC").
		Find(&placements).Error
	if err != nil {
		return nil, err
	}
	return placements, nil
}

func (r *placementRepository) GetBySlot(ctx context.Context, planID uuid.UUID, bg domain.Battlegroup, nodeNumber int) (*domain.Placement, error) {
	var placement domain.Placement
	err := r.db.WithContext(ctx).
		Preload("Defender").
		Preload("Player").
		First(&placement, "plan_id = ? AND battlegroup = ? AND node_number = ?", planID, bg, nodeNumber).Error
	if err != nil {
		return nil, err
	}
	return &placement, nil
}

func (r *placementRepository) Save(ctx context.Context, placement *domain.Placement) error {
	if placement.ID == uuid.Nil {
		placement.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "plan_id"}, {Name: "battlegroup"}, {Name: "node_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"node_id", "defender_id", "player_id", "star_level", "notes", "updated_at",
			}),
		}).
		Create(placement).Error
}
