package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
)

func extra(e domain.ExtraChampion) planning.Extra {
	return planning.Extra{
		ID:          e.ID.String(),
		WarID:       e.WarID.String(),
		PlayerID:    e.PlayerID.String(),
		ChampionID:  e.ChampionID,
		Battlegroup: int(e.Battlegroup),
	}
}

func (c *Client) FetchExtras(ctx context.Context, warID string, battlegroup int) ([]planning.Extra, error) {
	var extras []domain.ExtraChampion
	path := fmt.Sprintf("/wars/%s/extras?battlegroup=%d", url.PathEscape(warID), battlegroup)
	if err := c.do(ctx, "fetch extras", http.MethodGet, path, nil, &extras); err != nil {
		return nil, err
	}
	out := make([]planning.Extra, 0, len(extras))
	for _, e := range extras {
		out = append(out, extra(e))
	}
	return out, nil
}

func (c *Client) AddExtra(ctx context.Context, e planning.Extra) (planning.Extra, error) {
	body := domain.ExtraInput{PlayerID: e.PlayerID, ChampionID: e.ChampionID, Battlegroup: e.Battlegroup}
	var saved domain.ExtraChampion
	path := "/wars/" + url.PathEscape(e.WarID) + "/extras"
	if err := c.do(ctx, "add extra", http.MethodPost, path, body, &saved); err != nil {
		return planning.Extra{}, err
	}
	return extra(saved), nil
}

func (c *Client) RemoveExtra(ctx context.Context, warID, extraID string) error {
	path := "/wars/" + url.PathEscape(warID) + "/extras/" + url.PathEscape(extraID)
	return c.do(ctx, "remove extra", http.MethodDelete, path, nil, nil)
}

// banResource maps a ban kind to its collection path.
func banResource(kind planning.BanKind, scopeID string) string {
	if kind == planning.WarBan {
		return "/wars/" + url.PathEscape(scopeID) + "/bans"
	}
	return "/seasons/" + url.PathEscape(scopeID) + "/bans"
}

// banRow decodes both SeasonBan and WarBan rows.
type banRow struct {
	ID         string `json:"id"`
	ChampionID string `json:"championId"`
}

type warBansBody struct {
	Bans  []banRow `json:"bans"`
	Limit int      `json:"limit"`
}

func (c *Client) FetchBans(ctx context.Context, kind planning.BanKind, scopeID string) ([]planning.Ban, error) {
	op := "fetch " + kind.String() + " bans"
	var rows []banRow
	if kind == planning.WarBan {
		var body warBansBody
		if err := c.do(ctx, op, http.MethodGet, banResource(kind, scopeID), nil, &body); err != nil {
			return nil, err
		}
		rows = body.Bans
	} else if err := c.do(ctx, op, http.MethodGet, banResource(kind, scopeID), nil, &rows); err != nil {
		return nil, err
	}
	out := make([]planning.Ban, 0, len(rows))
	for _, r := range rows {
		out = append(out, planning.Ban{ID: r.ID, ChampionID: r.ChampionID})
	}
	return out, nil
}

// WarBanLimit asks the server for its per-war ban cap.
func (c *Client) WarBanLimit(ctx context.Context, warID string) (int, error) {
	var body warBansBody
	if err := c.do(ctx, "fetch war bans", http.MethodGet, banResource(planning.WarBan, warID), nil, &body); err != nil {
		return 0, err
	}
	return body.Limit, nil
}

func (c *Client) AddBan(ctx context.Context, kind planning.BanKind, scopeID, championID string) (planning.Ban, error) {
	var row banRow
	body := domain.BanInput{ChampionID: championID}
	if err := c.do(ctx, "add "+kind.String()+" ban", http.MethodPost, banResource(kind, scopeID), body, &row); err != nil {
		return planning.Ban{}, err
	}
	return planning.Ban{ID: row.ID, ChampionID: row.ChampionID}, nil
}

func (c *Client) RemoveBan(ctx context.Context, kind planning.BanKind, scopeID, banID string) error {
	path := banResource(kind, scopeID) + "/" + url.PathEscape(banID)
	return c.do(ctx, "remove "+kind.String()+" ban", http.MethodDelete, path, nil, nil)
}
