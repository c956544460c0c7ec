package domain

import (
	"time"

	"github.com/google/uuid"
)

// Player is an alliance member. Officers may manage bans.
type Player struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string      `json:"name" gorm:"uniqueIndex;not null"`
	Battlegroup  Battlegroup `json:"battlegroup" gorm:"not null;default:1"`
	IsOfficer    bool        `json:"isOfficer" gorm:"not null;default:false"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// RosterEntry records a champion a player owns.
type RosterEntry struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlayerID   uuid.UUID `json:"playerId" gorm:"type:uuid;not null;uniqueIndex:idx_roster_player_champion"`
	ChampionID string    `json:"championId" gorm:"not null;uniqueIndex:idx_roster_player_champion"`
	Stars      int       `json:"stars" gorm:"not null"`
	Rank       int       `json:"rank" gorm:"not null"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Relations
	Champion *Champion `json:"champion,omitempty" gorm:"foreignKey:ChampionID"`
}

// TableName returns the table name for GORM
func (RosterEntry) TableName() string {
	return "roster_entries"
}
