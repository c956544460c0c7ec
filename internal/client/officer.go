package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dom/war-planner/internal/domain"
)

// RegisterPlayer creates an alliance member. Officer only.
func (c *Client) RegisterPlayer(ctx context.Context, name, password string, battlegroup int, officer bool) (*domain.Player, error) {
	body := map[string]interface{}{
		"name":        name,
		"password":    password,
		"battlegroup": battlegroup,
		"isOfficer":   officer,
	}
	var result authResponse
	if err := c.do(ctx, "register player", http.MethodPost, "/players", body, &result); err != nil {
		return nil, err
	}
	return &result.Player, nil
}

// SetRosterEntry records that a player owns a champion at stars and rank.
func (c *Client) SetRosterEntry(ctx context.Context, playerID, championID string, stars, rank int) (*domain.RosterEntry, error) {
	body := map[string]interface{}{
		"championId": championID,
		"stars":      stars,
		"rank":       rank,
	}
	var entry domain.RosterEntry
	path := "/players/" + url.PathEscape(playerID) + "/roster"
	if err := c.do(ctx, "set roster", http.MethodPut, path, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) CreatePlan(ctx context.Context, name string, mapType domain.MapType) (*domain.DefensePlan, error) {
	body := map[string]interface{}{"name": name, "mapType": mapType}
	var plan domain.DefensePlan
	if err := c.do(ctx, "create plan", http.MethodPost, "/plans", body, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) CreateSeason(ctx context.Context, name string) (*domain.Season, error) {
	var season domain.Season
	if err := c.do(ctx, "create season", http.MethodPost, "/seasons", map[string]string{"name": name}, &season); err != nil {
		return nil, err
	}
	return &season, nil
}

func (c *Client) CreateWar(ctx context.Context, seasonID, opponent string, mapType domain.MapType, tier int) (*domain.War, error) {
	body := map[string]interface{}{
		"seasonId": seasonID,
		"opponent": opponent,
		"mapType":  mapType,
		"tier":     tier,
	}
	var war domain.War
	if err := c.do(ctx, "create war", http.MethodPost, "/wars", body, &war); err != nil {
		return nil, err
	}
	return &war, nil
}
