package handlers

import (
	"net/http"

	"github.com/dom/war-planner/internal/service"
	"github.com/go-chi/chi/v5"
)

type ChampionHandler struct {
	championService *service.ChampionService
}

func NewChampionHandler(championService *service.ChampionService) *ChampionHandler {
	return &ChampionHandler{championService: championService}
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

func (h *ChampionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	champions, err := h.championService.GetAllChampions(r.Context())
	if err != nil {
		writeServiceError(w, r, "champion.GetAll", err)
		return
	}
	writeJSON(w, r, http.StatusOK, champions)
}

func (h *ChampionHandler) Get(w http.ResponseWriter, r *http.Request) {
	champion, err := h.championService.GetChampion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "champion.Get", err)
		return
	}
	writeJSON(w, r, http.StatusOK, champion)
}

// Import upserts the champion catalog from a JSON array body.
func (h *ChampionHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	n, err := h.championService.Import(r.Context(), r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, ImportResponse{Imported: n})
}
