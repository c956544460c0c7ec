package handlers

import (
	"net/http"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/service"
	"github.com/google/uuid"
)

type WarHandler struct {
	warService *service.WarService
}

func NewWarHandler(warService *service.WarService) *WarHandler {
	return &WarHandler{warService: warService}
}

type CreateWarRequest struct {
	SeasonID string         `json:"seasonId"`
	Opponent string         `json:"opponent"`
	MapType  domain.MapType `json:"mapType" jsonschema:"enum=STANDARD,enum=BIG_THING"`
	Tier     int            `json:"tier" jsonschema:"minimum=1"`
}

func (h *WarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	seasonID, err := uuid.Parse(req.SeasonID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid seasonId")
		return
	}
	if req.MapType == "" {
		req.MapType = domain.MapTypeStandard
	}

	war, err := h.warService.CreateWar(r.Context(), service.CreateWarInput{
		SeasonID: seasonID,
		Opponent: req.Opponent,
		MapType:  req.MapType,
		Tier:     req.Tier,
	})
	if err != nil {
		writeServiceError(w, r, "war.Create", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, war)
}

func (h *WarHandler) Get(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	war, err := h.warService.GetWar(r.Context(), warID)
	if err != nil {
		writeServiceError(w, r, "war.Get", err)
		return
	}
	writeJSON(w, r, http.StatusOK, war)
}

func (h *WarHandler) Nodes(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	nodes, err := h.warService.GetNodes(r.Context(), warID)
	if err != nil {
		writeServiceError(w, r, "war.Nodes", err)
		return
	}
	writeJSON(w, r, http.StatusOK, nodes)
}

func (h *WarHandler) Fights(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	bg, ok := battlegroupQuery(w, r, 1)
	if !ok {
		return
	}
	fights, err := h.warService.ListFights(r.Context(), warID, bg)
	if err != nil {
		writeServiceError(w, r, "war.Fights", err)
		return
	}
	writeJSON(w, r, http.StatusOK, fights)
}

func (h *WarHandler) SaveFight(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	var req domain.FightPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	fight, err := h.warService.SaveFight(r.Context(), warID, req)
	if err != nil {
		writeServiceError(w, r, "war.SaveFight", err)
		return
	}
	writeJSON(w, r, http.StatusOK, fight)
}

func (h *WarHandler) Extras(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	bg, ok := battlegroupQuery(w, r, 1)
	if !ok {
		return
	}
	extras, err := h.warService.ListExtras(r.Context(), warID, bg)
	if err != nil {
		writeServiceError(w, r, "war.Extras", err)
		return
	}
	writeJSON(w, r, http.StatusOK, extras)
}

func (h *WarHandler) AddExtra(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	var req domain.ExtraInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	extra, err := h.warService.AddExtra(r.Context(), warID, req)
	if err != nil {
		writeServiceError(w, r, "war.AddExtra", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, extra)
}

func (h *WarHandler) RemoveExtra(w http.ResponseWriter, r *http.Request) {
	warID, ok := uuidParam(w, r, "warId")
	if !ok {
		return
	}
	extraID, ok := uuidParam(w, r, "extraId")
	if !ok {
		return
	}
	if err := h.warService.RemoveExtra(r.Context(), warID, extraID); err != nil {
		writeServiceError(w, r, "war.RemoveExtra", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
