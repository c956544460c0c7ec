package client

import (
	"encoding/json"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/patch"
	"github.com/dom/war-planner/internal/planning"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func championSummary(c *domain.Champion) *planning.ChampionSummary {
	if c == nil {
		return nil
	}
	return &planning.ChampionSummary{
		ID:    c.ID,
		Name:  c.Name,
		Class: string(c.Class),
		Tags:  decodeTags(c.Tags),
	}
}

func playerSummary(p *domain.Player) *planning.PlayerSummary {
	if p == nil {
		return nil
	}
	return &planning.PlayerSummary{
		ID:          p.ID.String(),
		Name:        p.Name,
		Battlegroup: int(p.Battlegroup),
	}
}

// decodeTags tolerates missing or malformed tag lists.
func decodeTags(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func nodeInfo(n domain.WarNode) planning.NodeInfo {
	info := planning.NodeInfo{ID: n.ID.String(), Number: n.NodeNumber}
	if len(n.Allocations) > 0 {
		_ = json.Unmarshal(n.Allocations, &info.Allocations)
	}
	return info
}

func placementRecord(p domain.Placement) planning.Record {
	return planning.Record{
		ID:          p.ID.String(),
		ScopeID:     p.PlanID.String(),
		Battlegroup: int(p.Battlegroup),
		NodeID:      p.NodeID.String(),
		NodeNumber:  p.NodeNumber,
		ChampionID:  p.DefenderID,
		PlayerID:    uuidString(p.PlayerID),
		StarLevel:   p.StarLevel,
		Notes:       p.Notes,
		Node:        planning.NodeInfo{ID: p.NodeID.String(), Number: p.NodeNumber},
		Champion:    championSummary(p.Defender),
		Player:      playerSummary(p.Player),
	}
}

func fightRecord(f domain.Fight) planning.Record {
	rec := planning.Record{
		ID:          f.ID.String(),
		ScopeID:     f.WarID.String(),
		Battlegroup: int(f.Battlegroup),
		NodeID:      f.NodeID.String(),
		NodeNumber:  f.NodeNumber,
		ChampionID:  f.AttackerID,
		DefenderID:  f.DefenderID,
		PlayerID:    uuidString(f.PlayerID),
		Death:       f.Death,
		Notes:       f.Notes,
		Node:        planning.NodeInfo{ID: f.NodeID.String(), Number: f.NodeNumber},
		Champion:    championSummary(f.Attacker),
		Defender:    championSummary(f.Defender),
		Player:      playerSummary(f.Player),
	}
	var prefights []domain.Prefight
	if len(f.Prefights) > 0 && json.Unmarshal(f.Prefights, &prefights) == nil {
		for _, pf := range prefights {
			rec.Prefights = append(rec.Prefights, planning.Prefight{
				PlayerID:   pf.PlayerID.String(),
				ChampionID: pf.ChampionID,
			})
		}
	}
	return rec
}

// slot addresses a record by node number when known, else by node id.
func slot(rec planning.Record) (int, string) {
	if rec.NodeNumber > 0 {
		return rec.NodeNumber, ""
	}
	return 0, rec.NodeID
}

// placementPatch sends every field of rec; nil pointers clear.
func placementPatch(rec planning.Record) domain.PlacementPatch {
	number, nodeID := slot(rec)
	return domain.PlacementPatch{
		Battlegroup: rec.Battlegroup,
		NodeNumber:  number,
		NodeID:      nodeID,
		DefenderID:  patch.FromPtr(rec.ChampionID),
		PlayerID:    patch.FromPtr(rec.PlayerID),
		StarLevel:   patch.FromPtr(rec.StarLevel),
		Notes:       patch.Set(rec.Notes),
	}
}

func fightPatch(rec planning.Record) (domain.FightPatch, error) {
	number, nodeID := slot(rec)
	prefights := make([]domain.Prefight, 0, len(rec.Prefights))
	for _, pf := range rec.Prefights {
		playerID, err := uuid.Parse(pf.PlayerID)
		if err != nil {
			return domain.FightPatch{}, &planning.ValidationError{Message: "Prefight player " + pf.PlayerID + " is not a valid id."}
		}
		prefights = append(prefights, domain.Prefight{PlayerID: playerID, ChampionID: pf.ChampionID})
	}
	return domain.FightPatch{
		Battlegroup: rec.Battlegroup,
		NodeNumber:  number,
		NodeID:      nodeID,
		AttackerID:  patch.FromPtr(rec.ChampionID),
		DefenderID:  patch.FromPtr(rec.DefenderID),
		PlayerID:    patch.FromPtr(rec.PlayerID),
		Death:       patch.FromPtr(rec.Death),
		Notes:       patch.Set(rec.Notes),
		Prefights:   patch.Set(prefights),
	}, nil
}
