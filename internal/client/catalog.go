package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
)

func (c *Client) FetchChampions(ctx context.Context) ([]planning.ChampionSummary, error) {
	var champions []domain.Champion
	if err := c.do(ctx, "fetch champions", http.MethodGet, "/champions", nil, &champions); err != nil {
		return nil, err
	}
	out := make([]planning.ChampionSummary, 0, len(champions))
	for i := range champions {
		out = append(out, *championSummary(&champions[i]))
	}
	return out, nil
}

// FetchPlayers lists the players of one battlegroup, or everyone when
// battlegroup is 0.
func (c *Client) FetchPlayers(ctx context.Context, battlegroup int) ([]planning.PlayerSummary, error) {
	path := "/players"
	if battlegroup > 0 {
		path += "?battlegroup=" + strconv.Itoa(battlegroup)
	}
	var players []domain.Player
	if err := c.do(ctx, "fetch players", http.MethodGet, path, nil, &players); err != nil {
		return nil, err
	}
	out := make([]planning.PlayerSummary, 0, len(players))
	for i := range players {
		out = append(out, *playerSummary(&players[i]))
	}
	return out, nil
}

func (c *Client) FetchRoster(ctx context.Context, playerID string) ([]planning.RosterChampion, error) {
	var entries []domain.RosterEntry
	path := "/players/" + url.PathEscape(playerID) + "/roster"
	if err := c.do(ctx, "fetch roster", http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	out := make([]planning.RosterChampion, 0, len(entries))
	for _, e := range entries {
		out = append(out, planning.RosterChampion{ChampionID: e.ChampionID, Stars: e.Stars, Rank: e.Rank})
	}
	return out, nil
}

// GetWar returns the war header, used to find its season and map.
func (c *Client) GetWar(ctx context.Context, warID string) (*domain.War, error) {
	var war domain.War
	if err := c.do(ctx, "get war", http.MethodGet, "/wars/"+url.PathEscape(warID), nil, &war); err != nil {
		return nil, err
	}
	return &war, nil
}

// GetPlan returns the defense plan header.
func (c *Client) GetPlan(ctx context.Context, planID string) (*domain.DefensePlan, error) {
	var plan domain.DefensePlan
	if err := c.do(ctx, "get plan", http.MethodGet, "/plans/"+url.PathEscape(planID), nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
