package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlayerBuilder creates test players with a builder pattern
type PlayerBuilder struct {
	name        string
	password    string
	battlegroup domain.Battlegroup
	officer     bool
}

// NewPlayerBuilder creates a new PlayerBuilder with default values
func NewPlayerBuilder() *PlayerBuilder {
	return &PlayerBuilder{
		name:        fmt.Sprintf("player_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
		battlegroup: 1,
	}
}

func (b *PlayerBuilder) WithName(name string) *PlayerBuilder {
	b.name = name
	return b
}

func (b *PlayerBuilder) WithPassword(password string) *PlayerBuilder {
	b.password = password
	return b
}

func (b *PlayerBuilder) InBattlegroup(bg domain.Battlegroup) *PlayerBuilder {
	b.battlegroup = bg
	return b
}

func (b *PlayerBuilder) AsOfficer() *PlayerBuilder {
	b.officer = true
	return b
}

// Build creates the player in the database and returns it with the raw password
func (b *PlayerBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Player, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	player := &domain.Player{
		ID:           uuid.New(),
		Name:         b.name,
		Battlegroup:  b.battlegroup,
		IsOfficer:    b.officer,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(player).Error; err != nil {
		t.Fatalf("failed to create player: %v", err)
	}

	return player, b.password
}

// BuildAndAuthenticate creates the player and logs in through the service,
// returning the access token.
func (b *PlayerBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.Player, string) {
	t.Helper()

	player, password := b.Build(t, ts.DB.DB)
	result, err := ts.Services.Auth.Login(context.Background(), service.LoginInput{
		Name:     player.Name,
		Password: password,
	})
	if err != nil {
		t.Fatalf("failed to log in player: %v", err)
	}
	return player, result.AccessToken
}

// ChampionBuilder creates test champions
type ChampionBuilder struct {
	id    string
	name  string
	class domain.ChampionClass
	tags  []string
}

// NewChampionBuilder creates a new ChampionBuilder with default values
func NewChampionBuilder() *ChampionBuilder {
	id := fmt.Sprintf("champion-%s", uuid.New().String()[:8])
	return &ChampionBuilder{
		id:    id,
		name:  id,
		class: domain.ClassCosmic,
		tags:  []string{},
	}
}

// WithID sets the champion ID and, by default, its name
func (b *ChampionBuilder) WithID(id string) *ChampionBuilder {
	b.id = id
	b.name = id
	return b
}

func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.name = name
	return b
}

func (b *ChampionBuilder) WithClass(class domain.ChampionClass) *ChampionBuilder {
	b.class = class
	return b
}

func (b *ChampionBuilder) WithTags(tags []string) *ChampionBuilder {
	b.tags = tags
	return b
}

// Build creates the champion in the database
func (b *ChampionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Champion {
	t.Helper()

	tagsJSON, _ := json.Marshal(b.tags)
	champion := &domain.Champion{
		ID:        b.id,
		Name:      b.name,
		Class:     b.class,
		Tags:      datatypes.JSON(tagsJSON),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(champion).Error; err != nil {
		t.Fatalf("failed to create champion: %v", err)
	}

	return champion
}

// SeedChampions creates champions with the given ids.
func SeedChampions(t *testing.T, db *gorm.DB, ids ...string) []*domain.Champion {
	t.Helper()

	champions := make([]*domain.Champion, len(ids))
	for i, id := range ids {
		champions[i] = NewChampionBuilder().WithID(id).Build(t, db)
	}
	return champions
}

// AddRoster gives a player a champion at the given stars and rank.
func AddRoster(t *testing.T, db *gorm.DB, player *domain.Player, championID string, stars, rank int) *domain.RosterEntry {
	t.Helper()

	entry := &domain.RosterEntry{
		ID:         uuid.New(),
		PlayerID:   player.ID,
		ChampionID: championID,
		Stars:      stars,
		Rank:       rank,
		UpdatedAt:  time.Now(),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create roster entry: %v", err)
	}
	return entry
}

// CreatePlan creates a defense plan through the service so its map nodes
// are seeded.
func CreatePlan(t *testing.T, ts *TestServer, mapType domain.MapType) *domain.DefensePlan {
	t.Helper()

	plan, err := ts.Services.Plan.CreatePlan(context.Background(), "test plan", mapType)
	if err != nil {
		t.Fatalf("failed to create plan: %v", err)
	}
	return plan
}

// CreateSeasonAndWar creates a season with one war on the given map.
func CreateSeasonAndWar(t *testing.T, ts *TestServer, mapType domain.MapType) (*domain.Season, *domain.War) {
	t.Helper()

	ctx := context.Background()
	season, err := ts.Services.Ban.CreateSeason(ctx, "test season")
	if err != nil {
		t.Fatalf("failed to create season: %v", err)
	}
	war, err := ts.Services.War.CreateWar(ctx, service.CreateWarInput{
		SeasonID: season.ID,
		Opponent: "Rivals",
		MapType:  mapType,
		Tier:     3,
	})
	if err != nil {
		t.Fatalf("failed to create war: %v", err)
	}
	return season, war
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends req with the default client and closes the body at test end.
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
