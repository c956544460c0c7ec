package postgres

import (
	"context"
	"errors"

	"github.com/dom/war-planner/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type banRepository struct {
	db *gorm.DB
}

func NewBanRepository(db *gorm.DB) *banRepository {
	return &banRepository{db: db}
}

func (r *banRepository) GetSeasonBans(ctx context.Context, seasonID uuid.UUID) ([]*domain.SeasonBan, error) {
	var bans []*domain.SeasonBan
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("created_at ASC").
		Find(&bans).Error
	if err != nil {
		return nil, err
	}
	return bans, nil
}

func (r *banRepository) AddSeasonBan(ctx context.Context, ban *domain.SeasonBan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&domain.SeasonBan{}).
			Where("season_id = ? AND champion_id = ?", ban.SeasonID, ban.ChampionID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrDuplicateBan
		}
		return tx.Create(ban).Error
	})
}

func (r *banRepository) DeleteSeasonBan(ctx context.Context, seasonID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &domain.SeasonBan{}, "season_id", seasonID, id)
}

func (r *banRepository) GetWarBans(ctx context.Context, warID uuid.UUID) ([]*domain.WarBan, error) {
	var bans []*domain.WarBan
	err := r.db.WithContext(ctx).
		Where("war_id = ?", warID).
		Order("created_at ASC").
		Find(&bans).Error
	if err != nil {
		return nil, err
	}
	return bans, nil
}

func (r *banRepository) AddWarBan(ctx context.Context, ban *domain.WarBan, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the war row so concurrent bans see each other's count.
		var war domain.War
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&war, "id = ?", ban.WarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var bans []domain.WarBan
		if err := tx.Where("war_id = ?", ban.WarID).Find(&bans).Error; err != nil {
			return err
		}
		for _, b := range bans {
			if b.ChampionID == ban.ChampionID {
				return domain.ErrDuplicateBan
			}
		}
		if len(bans) >= limit {
			return domain.ErrWarBanLimit
		}
		return tx.Create(ban).Error
	})
}

func (r *banRepository) DeleteWarBan(ctx context.Context, warID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &domain.WarBan{}, "war_id", warID, id)
}

func deleteScoped(db *gorm.DB, model any, scopeColumn string, scopeID, id uuid.UUID) error {
	res := db.Where(scopeColumn+" = ? AND id = ?", scopeID, id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
