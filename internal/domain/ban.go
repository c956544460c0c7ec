package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultWarBanLimit caps the number of war bans per war.
const DefaultWarBanLimit = 5

type Season struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// SeasonBan forbids a champion for every war in the season.
type SeasonBan struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SeasonID   uuid.UUID `json:"seasonId" gorm:"type:uuid;not null;uniqueIndex:idx_season_ban"`
	ChampionID string    `json:"championId" gorm:"not null;uniqueIndex:idx_season_ban"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WarBan forbids a champion for a single war.
type WarBan struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WarID      uuid.UUID `json:"warId" gorm:"type:uuid;not null;uniqueIndex:idx_war_ban"`
	ChampionID string    `json:"championId" gorm:"not null;uniqueIndex:idx_war_ban"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Tactic pairs an attack and defense tag for a season tier; champions
// carrying the tag are flagged in planning views.
type Tactic struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SeasonID   uuid.UUID `json:"seasonId" gorm:"type:uuid;not null;index"`
	MinTier    int       `json:"minTier" gorm:"not null;default:1"`
	MaxTier    int       `json:"maxTier" gorm:"not null;default:99"`
	Name       string    `json:"name" gorm:"not null"`
	AttackTag  string    `json:"attackTag"`
	DefenseTag string    `json:"defenseTag"`
}

// AppliesTo reports whether the tactic is active for a war tier.
func (t *Tactic) AppliesTo(tier int) bool {
	return tier >= t.MinTier && tier <= t.MaxTier
}
