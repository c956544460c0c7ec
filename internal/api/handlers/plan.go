package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/service"
	"github.com/go-chi/chi/v5"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type CreatePlanRequest struct {
	Name    string         `json:"name"`
	MapType domain.MapType `json:"mapType" jsonschema:"enum=STANDARD,enum=BIG_THING"`
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MapType == "" {
		req.MapType = domain.MapTypeStandard
	}

	plan, err := h.planService.CreatePlan(r.Context(), req.Name, req.MapType)
	if err != nil {
		writeServiceError(w, r, "plan.Create", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, plan)
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.ListPlans(r.Context())
	if err != nil {
		writeServiceError(w, r, "plan.List", err)
		return
	}
	writeJSON(w, r, http.StatusOK, plans)
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	planID, ok := uuidParam(w, r, "planId")
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(r.Context(), planID)
	if err != nil {
		writeServiceError(w, r, "plan.Get", err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

func (h *PlanHandler) Nodes(w http.ResponseWriter, r *http.Request) {
	planID, ok := uuidParam(w, r, "planId")
	if !ok {
		return
	}
	nodes, err := h.planService.GetNodes(r.Context(), planID)
	if err != nil {
		writeServiceError(w, r, "plan.Nodes", err)
		return
	}
	writeJSON(w, r, http.StatusOK, nodes)
}

// Placements handles GET /plans/{planId}/placements?battlegroup=.
func (h *PlanHandler) Placements(w http.ResponseWriter, r *http.Request) {
	planID, ok := uuidParam(w, r, "planId")
	if !ok {
		return
	}
	bg, ok := battlegroupQuery(w, r, 1)
	if !ok {
		return
	}
	placements, err := h.planService.ListPlacements(r.Context(), planID, bg)
	if err != nil {
		writeServiceError(w, r, "plan.Placements", err)
		return
	}
	writeJSON(w, r, http.StatusOK, placements)
}

// SavePlacement upserts one placement from a tri-state patch body and
// returns the stored row.
func (h *PlanHandler) SavePlacement(w http.ResponseWriter, r *http.Request) {
	planID, ok := uuidParam(w, r, "planId")
	if !ok {
		return
	}
	var req domain.PlacementPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	placement, err := h.planService.SavePlacement(r.Context(), planID, req)
	if err != nil {
		writeServiceError(w, r, "plan.SavePlacement", err)
		return
	}
	writeJSON(w, r, http.StatusOK, placement)
}

// SetAllocations handles PUT /maps/{mapType}/nodes/{nodeNumber}/allocations.
func (h *PlanHandler) SetAllocations(w http.ResponseWriter, r *http.Request) {
	mapType := domain.MapType(chi.URLParam(r, "mapType"))
	number, err := strconv.Atoi(chi.URLParam(r, "nodeNumber"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid nodeNumber")
		return
	}
	var allocations []domain.NodeAllocation
	if err := decodeJSON(r, &allocations); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.planService.SetAllocations(r.Context(), mapType, number, allocations); err != nil {
		writeServiceError(w, r, "plan.SetAllocations", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
