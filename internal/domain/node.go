package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WarNode is the persisted row for one gameplay node of a map. Portals are
// never stored; they only exist in the static topology.
type WarNode struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MapType     MapType        `json:"mapType" gorm:"not null;uniqueIndex:idx_war_node_map_number"`
	NodeNumber  int            `json:"nodeNumber" gorm:"not null;uniqueIndex:idx_war_node_map_number"`
	Allocations datatypes.JSON `json:"allocations" gorm:"type:jsonb;default:'[]'"`
}

// NodeAllocation is a node modifier (buff) allocated to a node for a season tier.
type NodeAllocation struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tier        int    `json:"tier,omitempty"`
}
