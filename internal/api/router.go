package api

import (
	"net/http"

	"github.com/dom/war-planner/internal/api/handlers"
	"github.com/dom/war-planner/internal/api/middleware"
	"github.com/dom/war-planner/internal/config"
	"github.com/dom/war-planner/internal/service"
	"github.com/dom/war-planner/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	championHandler := handlers.NewChampionHandler(services.Champion)
	rosterHandler := handlers.NewRosterHandler(services.Roster)
	planHandler := handlers.NewPlanHandler(services.Plan)
	warHandler := handlers.NewWarHandler(services.War)
	banHandler := handlers.NewBanHandler(services.Ban, services.War)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.CORSOrigins)

	authenticate := middleware.Auth(services.Auth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/champions", func(r chi.Router) {
				r.Get("/", championHandler.GetAll)
				r.Get("/{id}", championHandler.Get)
				r.With(middleware.Officer).Post("/import", championHandler.Import)
			})

			r.Route("/players", func(r chi.Router) {
				r.Get("/", rosterHandler.ListPlayers)
				r.With(middleware.Officer).Post("/", authHandler.Register)
				r.Get("/{playerId}/roster", rosterHandler.GetRoster)
				r.Put("/{playerId}/roster", rosterHandler.SetEntry)
			})

			r.Route("/plans", func(r chi.Router) {
				r.Get("/", planHandler.List)
				r.With(middleware.Officer).Post("/", planHandler.Create)
				r.Get("/{planId}", planHandler.Get)
				r.Get("/{planId}/nodes", planHandler.Nodes)
				r.Get("/{planId}/placements", planHandler.Placements)
				r.Put("/{planId}/placements", planHandler.SavePlacement)
			})

			r.With(middleware.Officer).Put("/maps/{mapType}/nodes/{nodeNumber}/allocations", planHandler.SetAllocations)

			r.Route("/wars", func(r chi.Router) {
				r.With(middleware.Officer).Post("/", warHandler.Create)
				r.Get("/{warId}", warHandler.Get)
				r.Get("/{warId}/nodes", warHandler.Nodes)
				r.Get("/{warId}/fights", warHandler.Fights)
				r.Put("/{warId}/fights", warHandler.SaveFight)

				r.Get("/{warId}/extras", warHandler.Extras)
				r.Post("/{warId}/extras", warHandler.AddExtra)
				r.Delete("/{warId}/extras/{extraId}", warHandler.RemoveExtra)

				r.Get("/{warId}/bans", banHandler.WarBans)
				r.With(middleware.Officer).Post("/{warId}/bans", banHandler.AddWarBan)
				r.With(middleware.Officer).Delete("/{warId}/bans/{banId}", banHandler.RemoveWarBan)
			})

			r.Route("/seasons", func(r chi.Router) {
				r.With(middleware.Officer).Post("/", banHandler.CreateSeason)
				r.Get("/{seasonId}/wars", banHandler.SeasonWars)

				r.Get("/{seasonId}/bans", banHandler.SeasonBans)
				r.With(middleware.Officer).Post("/{seasonId}/bans", banHandler.AddSeasonBan)
				r.With(middleware.Officer).Delete("/{seasonId}/bans/{banId}", banHandler.RemoveSeasonBan)

				r.Get("/{seasonId}/tactics", banHandler.Tactics)
				r.With(middleware.Officer).Post("/{seasonId}/tactics", banHandler.AddTactic)
			})

			r.Get("/ws", wsHandler.Handle)
		})
	})

	return r
}
