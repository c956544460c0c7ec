package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Champion struct {
	ID        string         `json:"id" gorm:"primaryKey"`      // e.g., "hercules"
	Name      string         `json:"name" gorm:"not null"`      // Display name
	Class     ChampionClass  `json:"class" gorm:"not null"`     // e.g., "Cosmic"
	ImageURL  string         `json:"imageUrl"`                  // Portrait
	Tags      datatypes.JSON `json:"tags" gorm:"type:jsonb"`    // ["#Regeneration", "#Villain"]
	UpdatedAt time.Time      `json:"updatedAt"`
}

type ChampionClass string

const (
	ClassCosmic   ChampionClass = "Cosmic"
	ClassTech     ChampionClass = "Tech"
	ClassMutant   ChampionClass = "Mutant"
	ClassSkill    ChampionClass = "Skill"
	ClassScience  ChampionClass = "Science"
	ClassMystic   ChampionClass = "Mystic"
	ClassSuperior ChampionClass = "Superior"
)
