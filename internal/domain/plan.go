package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefensePlan groups defense placements across the three battlegroups.
type DefensePlan struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	MapType   MapType   `json:"mapType" gorm:"not null;default:'STANDARD'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Placement is one defender assignment. At most one exists per
// (plan, battlegroup, node); clearing a defender keeps the row.
type Placement struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlanID      uuid.UUID   `json:"planId" gorm:"type:uuid;not null;uniqueIndex:idx_placement_slot"`
	Battlegroup Battlegroup `json:"battlegroup" gorm:"not null;uniqueIndex:idx_placement_slot"`
	NodeID      uuid.UUID   `json:"nodeId" gorm:"type:uuid;not null"`
	NodeNumber  int         `json:"nodeNumber" gorm:"not null;uniqueIndex:idx_placement_slot"`
	DefenderID  *string     `json:"defenderId"`
	PlayerID    *uuid.UUID  `json:"playerId" gorm:"type:uuid"`
	StarLevel   *int        `json:"starLevel"`
	Notes       string      `json:"notes"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// Relations
	Defender *Champion `json:"defender,omitempty" gorm:"foreignKey:DefenderID"`
	Player   *Player   `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}
