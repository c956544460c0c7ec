package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/service"
)

// BanHandler serves seasons with their bans and tactics, and war bans.
type BanHandler struct {
	banService *service.BanService
	warService *service.WarService
}

func NewBanHandler(banService *service.BanService, warService *service.WarService) *BanHandler {
	return &BanHandler{banService: banService, warService: warService}
}

type CreateSeasonRequest struct {
	Name string `json:"name"`
}

type WarBansResponse struct {
	Bans  []*domain.WarBan `json:"bans"`
	Limit int              `json:"limit"`
}

func (h *BanHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req CreateSeasonRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	season, err := h.banService.CreateSeason(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, "ban.CreateSeason", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, season)
}

func (h *BanHandler) SeasonWars(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonId")
	if !ok {
		return
	}
	wars, err := h.warService.ListWars(r.Context(), seasonID)
	if err != nil {
		writeServiceError(w, r, "ban.SeasonWars", err)
		return
	}
	writeJSON(w, r, http.StatusOK, wars)
}

func (h *BanHandler) SeasonBans(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonId")
	if !ok {
		return
	}
	bans, err := h.banService.SeasonBans(r.Context(), seasonID)
	if err != nil {
		writeServiceError(w, r, "ban.SeasonBans", err)
		return
	}
	writeJSON(w, r, http.StatusOK, bans)
}

func (h *BanHandler) AddSeasonBan(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonId")
	if !ok {
		return
	}
	var req domain.BanInput
	if err := decodeJSON(r, &req); err != nil || req.ChampionID == "" {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	ban, err := h.banService.AddSeasonBan(r.Context(), seasonID, req.ChampionID)
	if err != nil {
		writeServiceError(w, r, "ban.AddSeasonBan", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ban)
}

func (h *BanHandler) RemoveSeasonBan(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonId")
	if !ok {
		return
	}
	banID, ok := uuidParam(w, r, "banId")
	if !ok {
		return
	}
	if err := h.banService.RemoveSeasonBan(r.Context(), seasonID, banID); err != nil {
		writeServiceError(w, r, "ban.RemoveSeasonBan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BanHandler) WarBans(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	bans, err := h.banService.WarBans(r.Context(), warID)
	if err != nil {
		writeServiceError(w, r, "ban.WarBans", err)
		return
	}
	writeJSON(w, r, http.StatusOK, WarBansResponse{Bans: bans, Limit: h.banService.WarBanLimit()})
}

func (h *BanHandler) AddWarBan(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	var req domain.BanInput
	if err := decodeJSON(r, &req); err != nil || req.ChampionID == "" {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	ban, err := h.banService.AddWarBan(r.Context(), warID, req.ChampionID)
	if err != nil {
		writeServiceError(w, r, "ban.AddWarBan", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ban)
}

func (h *BanHandler) RemoveWarBan(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	banID, ok := uuidParam(w, r, "banId")
	if !ok {
		return
	}
	if err := h.banService.RemoveWarBan(r.Context(), warID, banID); err != nil {
		writeServiceError(w, r, "ban.RemoveWarBan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tactics handles GET /seasons/{seasonId}/tactics?tier=.
func (h *BanHandler) Tactics(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonId")
	if !ok {
		return
	}
	tier := 0
	if raw := r.URL.Query().Get("tier"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid tier")
			return
		}
		tier = n
	}
	tactics, err := h.banService.Tactics(r.Context(), seasonID, tier)
	if err != nil {
		writeServiceError(w, r, "ban.Tactics", err)
		return
	}
	writeJSON(w, r, http.StatusOK, tactics)
}

func (h *BanHandler) AddTactic(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := uuidParam(w, r, "seasonId")
	if !ok {
		return
	}
	var req service.TacticInput
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	tactic, err := h.banService.AddTactic(r.Context(), seasonID, req)
	if err != nil {
		writeServiceError(w, r, "ban.AddTactic", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, tactic)
}
