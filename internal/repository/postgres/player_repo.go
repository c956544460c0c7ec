package postgres

import (
	"context"

	"github.com/dom/war-planner/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *playerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, player *domain.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *playerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) List(ctx context.Context, bg domain.Battlegroup) ([]*domain.Player, error) {
	var players []*domain.Player
	q := r.db.WithContext(ctx).Order("battlegroup ASC, name ASC")
	if bg != 0 {
		q = q.Where("battlegroup = ?", bg)
	}
	if err := q.Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *rosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) Upsert(ctx context.Context, entry *domain.RosterEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "champion_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "rank", "updated_at"}),
	}).Create(entry).Error
}

func (r *rosterRepository) GetByPlayerID(ctx context.Context, playerID uuid.UUID) ([]*domain.RosterEntry, error) {
	var entries []*domain.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("Champion").
		Where("player_id = ?", playerID).
		Order("stars DESC, rank DESC, champion_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
