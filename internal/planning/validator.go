package planning

import (
	"fmt"
	"slices"

	"github.com/dom/war-planner/internal/domain"
)

// ChampionLimit is the number of unique champions a player may use in a
// battlegroup.
func ChampionLimit(mode Mode, mapType domain.MapType) int {
	big := mapType == domain.MapTypeBigThing
	switch {
	case mode == ModeAttack && big:
		return 2
	case mode == ModeAttack:
		return 3
	case big:
		return 1
	}
	return 5
}

// ValidationInput is everything Validate looks at. Records must be the
// battlegroup's full list.
type ValidationInput struct {
	Mode       Mode
	MapType    domain.MapType
	PlayerID   string
	ChampionID string
	NodeNumber int

	SeasonBans []string
	WarBans    []string
	Records    []Record
	Extras     []Extra
}

// ValidationResult carries the user-facing rejection message.
type ValidationResult struct {
	IsValid bool
	Error   string
}

// Err converts a rejection into a *ValidationError.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return &ValidationError{Message: r.Error}
}

// Validate checks bans and then the per-player unique champion limit,
// stopping at the first failure.
func Validate(in ValidationInput) ValidationResult {
	if slices.Contains(in.SeasonBans, in.ChampionID) {
		return ValidationResult{Error: "This champion is globally banned for this season."}
	}
	if slices.Contains(in.WarBans, in.ChampionID) {
		return ValidationResult{Error: "This champion is banned for this war."}
	}
	if in.PlayerID == "" {
		return ValidationResult{IsValid: true}
	}

	used := PlayerChampions(in.PlayerID, in.NodeNumber, in.Records, in.Extras)
	limit := ChampionLimit(in.Mode, in.MapType)
	if len(used) >= limit && !slices.Contains(used, in.ChampionID) {
		return ValidationResult{Error: fmt.Sprintf("Player already has %d unique champions assigned.", len(used))}
	}
	return ValidationResult{IsValid: true}
}

// PlayerChampions lists the unique champions a player is using: node
// assignments other than excludeNode, prefights, and staged extras.
func PlayerChampions(playerID string, excludeNode int, records []Record, extras []Extra) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, r := range records {
		if r.NodeNumber != excludeNode && r.PlayerID != nil && *r.PlayerID == playerID && r.ChampionID != nil {
			add(*r.ChampionID)
		}
		for _, p := range r.Prefights {
			if p.PlayerID == playerID {
				add(p.ChampionID)
			}
		}
	}
	for _, e := range extras {
		if e.PlayerID == playerID {
			add(e.ChampionID)
		}
	}
	return out
}
