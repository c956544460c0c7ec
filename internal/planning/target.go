package planning

import "sort"

// FindTargetNode picks where an unplaced defender should go. In priority
// order: the player's own open slot, a fully empty slot, a slot owned by
// someone but without a defender, then the lowest node with no record.
func FindTargetNode(playerID string, placements []Record, nodes []NodeInfo) *Target {
	sorted := make([]Record, len(placements))
	copy(sorted, placements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NodeNumber < sorted[j].NodeNumber
	})

	toTarget := func(r Record) *Target {
		return &Target{NodeID: r.NodeID, NodeNumber: r.NodeNumber, PlacementID: r.ID}
	}

	if playerID != "" {
		for _, r := range sorted {
			if r.PlayerID != nil && *r.PlayerID == playerID && !r.HasChampion() {
				return toTarget(r)
			}
		}
	}
	for _, r := range sorted {
		if !r.HasPlayer() && !r.HasChampion() {
			return toTarget(r)
		}
	}
	for _, r := range sorted {
		if r.HasPlayer() && !r.HasChampion() {
			return toTarget(r)
		}
	}

	occupied := make(map[int]bool, len(sorted))
	for _, r := range sorted {
		occupied[r.NodeNumber] = true
	}
	var best *NodeInfo
	for i := range nodes {
		n := nodes[i]
		if occupied[n.Number] {
			continue
		}
		if best == nil || n.Number < best.Number {
			best = &n
		}
	}
	if best == nil {
		return nil
	}
	return &Target{NodeID: best.ID, NodeNumber: best.Number}
}
