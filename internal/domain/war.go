package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type War struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SeasonID  uuid.UUID `json:"seasonId" gorm:"type:uuid;not null;index"`
	Opponent  string    `json:"opponent"`
	MapType   MapType   `json:"mapType" gorm:"not null;default:'STANDARD'"`
	Tier      int       `json:"tier" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fight is one attacker assignment against a node in a live war.
type Fight struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WarID       uuid.UUID      `json:"warId" gorm:"type:uuid;not null;uniqueIndex:idx_fight_slot"`
	Battlegroup Battlegroup    `json:"battlegroup" gorm:"not null;uniqueIndex:idx_fight_slot"`
	NodeID      uuid.UUID      `json:"nodeId" gorm:"type:uuid;not null"`
	NodeNumber  int            `json:"nodeNumber" gorm:"not null;uniqueIndex:idx_fight_slot"`
	AttackerID  *string        `json:"attackerId"`
	DefenderID  *string        `json:"defenderId"`
	PlayerID    *uuid.UUID     `json:"playerId" gorm:"type:uuid"`
	Death       *int           `json:"death"`
	Notes       string         `json:"notes"`
	Prefights   datatypes.JSON `json:"prefights" gorm:"type:jsonb;default:'[]'"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Relations
	Attacker *Champion `json:"attacker,omitempty" gorm:"foreignKey:AttackerID"`
	Defender *Champion `json:"defender,omitempty" gorm:"foreignKey:DefenderID"`
	Player   *Player   `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

// Prefight is a champion used before the main attacker enters a node.
type Prefight struct {
	PlayerID   uuid.UUID `json:"playerId"`
	ChampionID string    `json:"championId"`
}

// ExtraChampion stages a champion for a player before it is bound to a node.
type ExtraChampion struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WarID       uuid.UUID   `json:"warId" gorm:"type:uuid;not null;index"`
	PlayerID    uuid.UUID   `json:"playerId" gorm:"type:uuid;not null"`
	ChampionID  string      `json:"championId" gorm:"not null"`
	Battlegroup Battlegroup `json:"battlegroup" gorm:"not null"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// TableName returns the table name for GORM
func (ExtraChampion) TableName() string {
	return "extra_champions"
}
