package handlers

import (
	"net/http"

	"github.com/dom/war-planner/internal/api/middleware"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/service"
)

type RosterHandler struct {
	rosterService *service.RosterService
}

func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

type RosterEntryRequest struct {
	ChampionID string `json:"championId"`
	Stars      int    `json:"stars" jsonschema:"minimum=1,maximum=7"`
	Rank       int    `json:"rank" jsonschema:"minimum=1"`
}

// ListPlayers handles GET /players?battlegroup=; no battlegroup lists all.
func (h *RosterHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	bg, ok := battlegroupQuery(w, r, 0)
	if !ok {
		return
	}
	players, err := h.rosterService.ListPlayers(r.Context(), domain.Battlegroup(bg))
	if err != nil {
		writeServiceError(w, r, "roster.ListPlayers", err)
		return
	}
	writeJSON(w, r, http.StatusOK, players)
}

func (h *RosterHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	playerID, ok := uuidParam(w, r, "playerId")
	if !ok {
		return
	}
	roster, err := h.rosterService.GetRoster(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, r, "roster.GetRoster", err)
		return
	}
	writeJSON(w, r, http.StatusOK, roster)
}

// SetEntry upserts one roster champion. Players edit their own roster;
// officers may edit anyone's.
func (h *RosterHandler) SetEntry(w http.ResponseWriter, r *http.Request) {
	playerID, ok := uuidParam(w, r, "playerId")
	if !ok {
		return
	}
	claims, _ := middleware.GetClaims(r.Context())
	if claims == nil || (claims.PlayerID != playerID && !claims.IsOfficer) {
		writeServiceError(w, r, "roster.SetEntry", domain.ErrForbidden)
		return
	}

	var req RosterEntryRequest
	if err := decodeJSON(r, &req); err != nil || req.ChampionID == "" {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.rosterService.SetRosterEntry(r.Context(), playerID, req.ChampionID, req.Stars, req.Rank)
	if err != nil {
		writeServiceError(w, r, "roster.SetEntry", err)
		return
	}
	writeJSON(w, r, http.StatusOK, entry)
}
