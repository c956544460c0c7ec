package domain

import "github.com/dom/war-planner/internal/patch"

// PlacementPatch is the body of a placement upsert. Omitted fields keep
// their stored value and null fields clear it.
type PlacementPatch struct {
	Battlegroup int                 `json:"battlegroup" jsonschema:"minimum=1,maximum=3"`
	NodeNumber  int                 `json:"nodeNumber,omitempty" jsonschema:"minimum=1"`
	NodeID      string              `json:"nodeId,omitempty"`
	DefenderID  patch.Field[string] `json:"defenderId,omitzero"`
	PlayerID    patch.Field[string] `json:"playerId,omitzero"`
	StarLevel   patch.Field[int]    `json:"starLevel,omitzero"`
	Notes       patch.Field[string] `json:"notes,omitzero"`
}

// FightPatch is the body of a fight upsert.
type FightPatch struct {
	Battlegroup int                     `json:"battlegroup" jsonschema:"minimum=1,maximum=3"`
	NodeNumber  int                     `json:"nodeNumber,omitempty" jsonschema:"minimum=1"`
	NodeID      string                  `json:"nodeId,omitempty"`
	AttackerID  patch.Field[string]     `json:"attackerId,omitzero"`
	DefenderID  patch.Field[string]     `json:"defenderId,omitzero"`
	PlayerID    patch.Field[string]     `json:"playerId,omitzero"`
	Death       patch.Field[int]        `json:"death,omitzero"`
	Notes       patch.Field[string]     `json:"notes,omitzero"`
	Prefights   patch.Field[[]Prefight] `json:"prefights,omitzero"`
}

// ExtraInput stages an extra champion.
type ExtraInput struct {
	PlayerID    string `json:"playerId"`
	ChampionID  string `json:"championId"`
	Battlegroup int    `json:"battlegroup" jsonschema:"minimum=1,maximum=3"`
}

// BanInput adds a season or war ban.
type BanInput struct {
	ChampionID string `json:"championId"`
}
