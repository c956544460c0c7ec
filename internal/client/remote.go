package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
)

// PlacementRemote serves defense plans as a planning.Remote.
type PlacementRemote struct {
	c *Client
}

// FightRemote serves wars as a planning.Remote.
type FightRemote struct {
	c *Client
}

var (
	_ planning.Remote       = (*PlacementRemote)(nil)
	_ planning.Remote       = (*FightRemote)(nil)
	_ planning.Catalog      = (*Client)(nil)
	_ planning.ExtrasRemote = (*Client)(nil)
	_ planning.BansRemote   = (*Client)(nil)
)

func (c *Client) Placements() *PlacementRemote { return &PlacementRemote{c: c} }

func (c *Client) Fights() *FightRemote { return &FightRemote{c: c} }

// Remote returns the record store for a session mode.
func (c *Client) Remote(mode planning.Mode) planning.Remote {
	if mode == planning.ModeAttack {
		return c.Fights()
	}
	return c.Placements()
}

func (r *PlacementRemote) FetchAll(ctx context.Context, planID string, battlegroup int) ([]planning.Record, error) {
	var placements []domain.Placement
	path := fmt.Sprintf("/plans/%s/placements?battlegroup=%d", url.PathEscape(planID), battlegroup)
	if err := r.c.do(ctx, "fetch placements", http.MethodGet, path, nil, &placements); err != nil {
		return nil, err
	}
	records := make([]planning.Record, 0, len(placements))
	for _, p := range placements {
		records = append(records, placementRecord(p))
	}
	return records, nil
}

func (r *PlacementRemote) FetchNodes(ctx context.Context, planID string) ([]planning.NodeInfo, error) {
	return r.c.fetchNodes(ctx, "/plans/"+url.PathEscape(planID)+"/nodes")
}

// Save upserts rec by (plan, battlegroup, node) and returns the stored row.
func (r *PlacementRemote) Save(ctx context.Context, rec planning.Record) (planning.Record, error) {
	var saved domain.Placement
	path := "/plans/" + url.PathEscape(rec.ScopeID) + "/placements"
	if err := r.c.do(ctx, "save placement", http.MethodPut, path, placementPatch(rec), &saved); err != nil {
		return planning.Record{}, err
	}
	return placementRecord(saved), nil
}

func (r *FightRemote) FetchAll(ctx context.Context, warID string, battlegroup int) ([]planning.Record, error) {
	var fights []domain.Fight
	path := fmt.Sprintf("/wars/%s/fights?battlegroup=%d", url.PathEscape(warID), battlegroup)
	if err := r.c.do(ctx, "fetch fights", http.MethodGet, path, nil, &fights); err != nil {
		return nil, err
	}
	records := make([]planning.Record, 0, len(fights))
	for _, f := range fights {
		records = append(records, fightRecord(f))
	}
	return records, nil
}

func (r *FightRemote) FetchNodes(ctx context.Context, warID string) ([]planning.NodeInfo, error) {
	return r.c.fetchNodes(ctx, "/wars/"+url.PathEscape(warID)+"/nodes")
}

func (r *FightRemote) Save(ctx context.Context, rec planning.Record) (planning.Record, error) {
	body, err := fightPatch(rec)
	if err != nil {
		return planning.Record{}, err
	}
	var saved domain.Fight
	path := "/wars/" + url.PathEscape(rec.ScopeID) + "/fights"
	if err := r.c.do(ctx, "save fight", http.MethodPut, path, body, &saved); err != nil {
		return planning.Record{}, err
	}
	return fightRecord(saved), nil
}

func (c *Client) fetchNodes(ctx context.Context, path string) ([]planning.NodeInfo, error) {
	var nodes []domain.WarNode
	if err := c.do(ctx, "fetch nodes", http.MethodGet, path, nil, &nodes); err != nil {
		return nil, err
	}
	out := make([]planning.NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeInfo(n))
	}
	return out, nil
}
