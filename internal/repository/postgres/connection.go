package postgres

import (
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Player{},
		&domain.Champion{},
		&domain.RosterEntry{},
		&domain.WarNode{},
		&domain.DefensePlan{},
		&domain.Placement{},
		&domain.Season{},
		&domain.War{},
		&domain.Fight{},
		&domain.ExtraChampion{},
		&domain.SeasonBan{},
		&domain.WarBan{},
		&domain.Tactic{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Player:    NewPlayerRepository(db),
		Roster:    NewRosterRepository(db),
		Champion:  NewChampionRepository(db),
		Node:      NewNodeRepository(db),
		Plan:      NewPlanRepository(db),
		Placement: NewPlacementRepository(db),
		War:       NewWarRepository(db),
		Fight:     NewFightRepository(db),
		Extra:     NewExtraRepository(db),
		Season:    NewSeasonRepository(db),
		Ban:       NewBanRepository(db),
	}
}
