package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/war-planner/internal/api"
	"github.com/dom/war-planner/internal/config"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/logger"
	"github.com/dom/war-planner/internal/repository/postgres"
	"github.com/dom/war-planner/internal/repository/redis"
	"github.com/dom/war-planner/internal/service"
	"github.com/dom/war-planner/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	importChampions := flag.String("import-champions", "", "Import a champion catalog JSON file and continue")
	officerName := flag.String("bootstrap-officer", "", "Create an officer with this name if it does not exist")
	officerPassword := flag.String("bootstrap-password", os.Getenv("BOOTSTRAP_PASSWORD"), "Password for -bootstrap-officer")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize WebSocket hub. With redis every instance bumps the shared
	// revision and the hub fans out whatever the feed delivers; without it
	// the hub publishes directly.
	hub := websocket.NewHub()
	go hub.Run()

	var publisher service.Publisher = hub
	if cfg.RedisURL != "" {
		feed, err := redis.NewChangeFeed(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer feed.Close()

		changes, err := feed.Subscribe(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to subscribe to change feed")
		}
		go hub.Consume(ctx, changes)
		publisher = feed
		log.Info().Msg("change feed: redis")
	} else {
		log.Info().Msg("change feed: in-process")
	}

	// Initialize services
	services := service.NewServices(repos, cfg, publisher)

	if *importChampions != "" {
		if err := importCatalog(ctx, services, *importChampions); err != nil {
			log.Fatal().Err(err).Str("file", *importChampions).Msg("champion import failed")
		}
	}
	if *officerName != "" {
		bootstrapOfficer(ctx, services, *officerName, *officerPassword)
	}

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	cancel()
	hub.Stop()

	log.Info().Msg("server stopped")
}

func importCatalog(ctx context.Context, services *service.Services, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := services.Champion.Import(ctx, f)
	if err != nil {
		return err
	}
	log.Info().Int("champions", n).Str("file", path).Msg("champion catalog imported")
	return nil
}

// bootstrapOfficer creates the first officer so the API can be used at all;
// registration is officer-only.
func bootstrapOfficer(ctx context.Context, services *service.Services, name, password string) {
	if password == "" {
		log.Fatal().Msg("-bootstrap-officer needs -bootstrap-password or BOOTSTRAP_PASSWORD")
	}
	_, err := services.Auth.Register(ctx, service.RegisterInput{
		Name:        name,
		Password:    password,
		Battlegroup: domain.Battlegroup(1),
		IsOfficer:   true,
	})
	switch {
	case err == nil:
		log.Info().Str("name", name).Msg("bootstrap officer created")
	case errors.Is(err, service.ErrNameExists):
		log.Info().Str("name", name).Msg("bootstrap officer already exists")
	default:
		log.Fatal().Err(err).Msg("bootstrap officer failed")
	}
}
