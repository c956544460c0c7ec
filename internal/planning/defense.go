package planning

import (
	"context"
	"strconv"

	"github.com/dom/war-planner/internal/patch"
)

// DefensePlanner is the defense-plan flow over a Session.
type DefensePlanner struct {
	*Session
}

// NewDefensePlanner creates a defense session; opts.Mode is forced to
// ModeDefense.
func NewDefensePlanner(remote Remote, catalog Catalog, opts Options) (*DefensePlanner, error) {
	opts.Mode = ModeDefense
	s, err := NewSession(remote, catalog, opts)
	if err != nil {
		return nil, err
	}
	return &DefensePlanner{Session: s}, nil
}

// Validate checks a defender assignment against the per-player limit.
func (d *DefensePlanner) Validate(playerID, championID string, nodeNumber int) ValidationResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Validate(ValidationInput{
		Mode:       ModeDefense,
		MapType:    d.opts.MapType,
		PlayerID:   playerID,
		ChampionID: championID,
		NodeNumber: nodeNumber,
		Records:    d.store.records,
	})
}

// FindTarget runs the auto-target rules over the current placements.
func (d *DefensePlanner) FindTarget(playerID string) *Target {
	d.mu.Lock()
	defer d.mu.Unlock()
	return FindTargetNode(playerID, d.store.records, d.store.Nodes())
}

// AddFromTool assigns a champion from a player's roster. The selected node
// is used when there is one, otherwise the auto-target rules pick a node.
// A nil starLevel is looked up from the cached roster rank.
func (d *DefensePlanner) AddFromTool(playerID, championID string, starLevel *int) (*Target, error) {
	var target *Target
	if selected, ok := d.Selected(); ok {
		target = &Target{NodeNumber: selected}
		if rec, found := d.Record(selected); found {
			target.NodeID = rec.NodeID
			target.PlacementID = rec.ID
		}
	} else {
		target = d.FindTarget(playerID)
	}
	if target == nil {
		err := &NotFoundError{What: "available node"}
		d.surface(err)
		return nil, err
	}

	if res := d.Validate(playerID, championID, target.NodeNumber); !res.IsValid {
		return nil, res.Err()
	}

	if starLevel == nil {
		d.mu.Lock()
		if entry, ok := d.store.RosterEntry(playerID, championID); ok {
			rank := entry.Rank
			starLevel = &rank
		}
		d.mu.Unlock()
	}

	m := Mutation{
		ID:         target.PlacementID,
		NodeID:     target.NodeID,
		NodeNumber: target.NodeNumber,
		ChampionID: patch.Set(championID),
		PlayerID:   patch.Set(playerID),
		StarLevel:  patch.FromPtr(starLevel),
	}
	if err := d.Save(m); err != nil {
		return nil, err
	}
	return target, nil
}

// AssignDefender puts a champion on a specific node for a player.
func (d *DefensePlanner) AssignDefender(nodeNumber int, playerID, championID string, starLevel *int) error {
	if res := d.Validate(playerID, championID, nodeNumber); !res.IsValid {
		return res.Err()
	}
	return d.Save(Mutation{
		NodeNumber: nodeNumber,
		ChampionID: patch.Set(championID),
		PlayerID:   patch.Set(playerID),
		StarLevel:  patch.FromPtr(starLevel),
	})
}

// AssignPlayer reserves a node for a player without a defender.
func (d *DefensePlanner) AssignPlayer(nodeNumber int, playerID string) error {
	return d.Save(Mutation{NodeNumber: nodeNumber, PlayerID: patch.Set(playerID)})
}

// RemovePlacement clears the defender of a placement. The record and its
// player stay.
func (d *DefensePlanner) RemovePlacement(placementID string) error {
	return d.Save(Mutation{
		ID:         placementID,
		ChampionID: patch.Null[string](),
		StarLevel:  patch.Null[int](),
	})
}

// ClearPlayer releases the player of a placement.
func (d *DefensePlanner) ClearPlayer(placementID string) error {
	return d.Save(Mutation{ID: placementID, PlayerID: patch.Null[string]()})
}

// SetNotes replaces the notes of a node.
func (d *DefensePlanner) SetNotes(nodeNumber int, notes string) error {
	return d.Save(Mutation{NodeNumber: nodeNumber, Notes: patch.Set(notes)})
}

// MoveDefender swaps defender, player and star level between a placement
// and a target node. The two saves are sent one after the other and are
// not rolled back together: if the second fails the first stays applied.
// targetNodeID is a server node id or a node number.
func (d *DefensePlanner) MoveDefender(ctx context.Context, sourcePlacementID, targetNodeID string) error {
	d.mu.Lock()
	source, ok := d.store.ByID(sourcePlacementID)
	if !ok {
		d.mu.Unlock()
		err := &NotFoundError{What: "placement", ID: sourcePlacementID}
		d.surface(err)
		return err
	}
	node, ok := d.store.NodeByID(targetNodeID)
	if !ok {
		if n, convErr := strconv.Atoi(targetNodeID); convErr == nil && d.store.assignable(n) {
			node, ok = d.store.Node(n), true
		}
	}
	if !ok {
		d.mu.Unlock()
		err := &NotFoundError{What: "node", ID: targetNodeID}
		d.surface(err)
		return err
	}
	target, hasTarget := d.store.ByNode(node.Number)
	d.mu.Unlock()

	if node.Number == source.NodeNumber {
		return nil
	}

	toTarget := Mutation{
		NodeID:     node.ID,
		NodeNumber: node.Number,
		ChampionID: patch.FromPtr(source.ChampionID),
		PlayerID:   patch.FromPtr(source.PlayerID),
		StarLevel:  patch.FromPtr(source.StarLevel),
	}
	toSource := Mutation{
		ID:         source.ID,
		ChampionID: patch.Null[string](),
		PlayerID:   patch.Null[string](),
		StarLevel:  patch.Null[int](),
	}
	if hasTarget {
		toTarget.ID = target.ID
		toSource.ChampionID = patch.FromPtr(target.ChampionID)
		toSource.PlayerID = patch.FromPtr(target.PlayerID)
		toSource.StarLevel = patch.FromPtr(target.StarLevel)
	}

	if err := d.SaveAndWait(ctx, toTarget); err != nil {
		return err
	}
	return d.SaveAndWait(ctx, toSource)
}
