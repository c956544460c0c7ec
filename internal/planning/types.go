package planning

import (
	"fmt"
	"slices"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/patch"
)

// Mode selects which flow a session runs.
type Mode int

const (
	// ModeDefense plans defender placements for a defense plan.
	ModeDefense Mode = iota
	// ModeAttack plans attacker fights for a live war.
	ModeAttack
)

func (m Mode) String() string {
	if m == ModeAttack {
		return "attack"
	}
	return "defense"
}

// ChampionSummary is the display data joined onto records.
type ChampionSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Class string   `json:"class,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// PlayerSummary is the display data joined onto records.
type PlayerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Battlegroup int    `json:"battlegroup,omitempty"`
}

// RosterChampion is one owned champion with its star and rank level.
type RosterChampion struct {
	ChampionID string `json:"championId"`
	Stars      int    `json:"stars"`
	Rank       int    `json:"rank"`
}

// NodeInfo is a server node joined with its allocations.
type NodeInfo struct {
	ID          string                  `json:"id"`
	Number      int                     `json:"nodeNumber"`
	Allocations []domain.NodeAllocation `json:"allocations"`
}

// Prefight is a champion a player uses before the main attacker.
type Prefight struct {
	PlayerID   string `json:"playerId"`
	ChampionID string `json:"championId"`
}

// Record is a placement (defense) or fight (attack). ChampionID holds the
// defender of a placement or the attacker of a fight; DefenderID is only
// used by fights to record the opposing defender on the node.
type Record struct {
	ID          string     `json:"id"`
	ScopeID     string     `json:"scopeId"`
	Battlegroup int        `json:"battlegroup"`
	NodeID      string     `json:"nodeId"`
	NodeNumber  int        `json:"nodeNumber"`
	ChampionID  *string    `json:"championId"`
	DefenderID  *string    `json:"defenderId,omitempty"`
	PlayerID    *string    `json:"playerId"`
	StarLevel   *int       `json:"starLevel,omitempty"`
	Death       *int       `json:"death,omitempty"`
	Notes       string     `json:"notes"`
	Prefights   []Prefight `json:"prefights,omitempty"`

	Node     NodeInfo         `json:"node"`
	Champion *ChampionSummary `json:"champion,omitempty"`
	Defender *ChampionSummary `json:"defender,omitempty"`
	Player   *PlayerSummary   `json:"player,omitempty"`
}

func (r Record) clone() Record {
	out := r
	out.ChampionID = clonePtr(r.ChampionID)
	out.DefenderID = clonePtr(r.DefenderID)
	out.PlayerID = clonePtr(r.PlayerID)
	out.StarLevel = clonePtr(r.StarLevel)
	out.Death = clonePtr(r.Death)
	out.Prefights = slices.Clone(r.Prefights)
	out.Node.Allocations = slices.Clone(r.Node.Allocations)
	out.Champion = clonePtr(r.Champion)
	out.Defender = clonePtr(r.Defender)
	out.Player = clonePtr(r.Player)
	return out
}

// HasChampion reports whether a defender (or attacker) is assigned.
func (r Record) HasChampion() bool { return r.ChampionID != nil }

// HasPlayer reports whether a player owns the slot.
func (r Record) HasPlayer() bool { return r.PlayerID != nil }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Mutation is a partial update of one record. Omitted fields leave the
// stored value alone; Null fields clear it.
type Mutation struct {
	ID          string
	Battlegroup int
	NodeID      string
	NodeNumber  int

	ChampionID patch.Field[string]
	DefenderID patch.Field[string]
	PlayerID   patch.Field[string]
	StarLevel  patch.Field[int]
	Death      patch.Field[int]
	Notes      patch.Field[string]
	Prefights  patch.Field[[]Prefight]
}

func (m Mutation) target() string {
	switch {
	case m.ID != "":
		return m.ID
	case m.NodeID != "":
		return "node " + m.NodeID
	}
	return fmt.Sprintf("node #%d", m.NodeNumber)
}

// apply folds the mutation into r.
func (m Mutation) apply(r *Record) {
	m.ChampionID.Apply(&r.ChampionID)
	m.DefenderID.Apply(&r.DefenderID)
	m.PlayerID.Apply(&r.PlayerID)
	m.StarLevel.Apply(&r.StarLevel)
	m.Death.Apply(&r.Death)
	m.Notes.ApplyValue(&r.Notes)
	m.Prefights.ApplyValue(&r.Prefights)
}

// Extra stages a champion for a player without binding it to a node.
type Extra struct {
	ID          string `json:"id"`
	WarID       string `json:"warId"`
	PlayerID    string `json:"playerId"`
	ChampionID  string `json:"championId"`
	Battlegroup int    `json:"battlegroup"`
}

// BanKind separates season-wide bans from per-war bans.
type BanKind int

const (
	SeasonBan BanKind = iota
	WarBan
)

func (k BanKind) String() string {
	if k == WarBan {
		return "war"
	}
	return "season"
}

// Ban forbids a champion from assignment.
type Ban struct {
	ID         string `json:"id"`
	ChampionID string `json:"championId"`
}

// Target is the node picked for an automatic assignment.
type Target struct {
	NodeID      string
	NodeNumber  int
	PlacementID string
}
