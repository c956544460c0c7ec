package postgres

import (
	"context"

	"github.com/dom/war-planner/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type warRepository struct {
	db *gorm.DB
}

func NewWarRepository(db *gorm.DB) *warRepository {
	return &warRepository{db: db}
}

func (r *warRepository) Create(ctx context.Context, war *domain.War) error {
	return r.db.WithContext(ctx).Create(war).Error
}

func (r *warRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.War, error) {
	var war domain.War
	err := r.db.WithContext(ctx).First(&war, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &war, nil
}

func (r *warRepository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*domain.War, error) {
	var wars []*domain.War
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("created_at DESC").
		Find(&wars).Error
	if err != nil {
		return nil, err
	}
	return wars, nil
}

type fightRepository struct {
	db *gorm.DB
}

func NewFightRepository(db *gorm.DB) *fightRepository {
	return &fightRepository{db: db}
}

func (r *fightRepository) GetByWar(ctx context.Context, warID uuid.UUID, bg domain.Battlegroup) ([]*domain.Fight, error) {
	var fights []*domain.Fight
	err := r.db.WithContext(ctx).
		Preload("Attacker").
		Preload("Defender").
		Preload("Player").
		Where("war_id = ? AND battlegroup = ?", warID, bg).
		Order("node_number ASC").
		Find(&fights).Error
	if err != nil {
		return nil, err
	}
	return fights, nil
}

func (r *fightRepository) GetBySlot(ctx context.Context, warID uuid.UUID, bg domain.Battlegroup, nodeNumber int) (*domain.Fight, error) {
	var fight domain.Fight
	err := r.db.WithContext(ctx).
		Preload("Attacker").
		Preload("Defender").
		Preload("Player").
		First(&fight, "war_id = ? AND battlegroup = ? AND node_number = ?", warID, bg, nodeNumber).Error
	if err != nil {
		return nil, err
	}
	return &fight, nil
}

func (r *fightRepository) Save(ctx context.Context, fight *domain.Fight) error {
	if fight.ID == uuid.Nil {
		fight.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "war_id"}, {Name: "battlegroup"}, {Name: "node_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"node_id", "attacker_id", "defender_id", "player_id", "death", "notes", "prefights", "updated_at",
			}),
		}).
		Create(fight).Error
}
