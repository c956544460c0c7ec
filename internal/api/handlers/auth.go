package handlers

import (
	"net/http"

	"github.com/dom/war-planner/internal/api/middleware"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterRequest creates a player account. Only officers may call it.
type RegisterRequest struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	Battlegroup int    `json:"battlegroup" jsonschema:"minimum=1,maximum=3"`
	IsOfficer   bool   `json:"isOfficer"`
}

type AuthResponse struct {
	Player      *domain.Player `json:"player"`
	AccessToken string         `json:"accessToken"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "Name and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, "auth.Login", err)
		return
	}

	writeJSON(w, r, http.StatusOK, AuthResponse{Player: result.Player, AccessToken: result.AccessToken})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "Name and password are required")
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		Password:    req.Password,
		Battlegroup: domain.Battlegroup(req.Battlegroup),
		IsOfficer:   req.IsOfficer,
	})
	if err != nil {
		writeServiceError(w, r, "auth.Register", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, AuthResponse{Player: result.Player, AccessToken: result.AccessToken})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.GetPlayerID(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	player, err := h.authService.GetPlayerByID(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, r, "auth.Me", err)
		return
	}
	writeJSON(w, r, http.StatusOK, player)
}
