package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository"
)

type ChampionService struct {
	championRepo repository.ChampionRepository
}

func NewChampionService(championRepo repository.ChampionRepository) *ChampionService {
	return &ChampionService{championRepo: championRepo}
}

func (s *ChampionService) GetAllChampions(ctx context.Context) ([]*domain.Champion, error) {
	return s.championRepo.GetAll(ctx)
}

func (s *ChampionService) GetChampion(ctx context.Context, id string) (*domain.Champion, error) {
	return s.championRepo.GetByID(ctx, id)
}

// CatalogEntry is one champion in an import file.
type CatalogEntry struct {
	ID       string   `json:"id" jsonschema:"minLength=1"`
	Name     string   `json:"name" jsonschema:"minLength=1"`
	Class    string   `json:"class" jsonschema:"enum=Cosmic,enum=Tech,enum=Mutant,enum=Skill,enum=Science,enum=Mystic,enum=Superior"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Import upserts a JSON array of catalog entries and returns how many were
// written.
func (s *ChampionService) Import(ctx context.Context, r io.Reader) (int, error) {
	var entries []CatalogEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("failed to decode champion catalog: %w", err)
	}

	champions := make([]*domain.Champion, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" || e.Name == "" {
			return 0, fmt.Errorf("champion catalog entry needs id and name: %+v", e)
		}
		if e.Tags == nil {
			e.Tags = []string{}
		}
		tagsJSON, err := json.Marshal(e.Tags)
		if err != nil {
			return 0, err
		}
		champions = append(champions, &domain.Champion{
			ID:        e.ID,
			Name:      e.Name,
			Class:     domain.ChampionClass(e.Class),
			ImageURL:  e.ImageURL,
			Tags:      tagsJSON,
			UpdatedAt: time.Now(),
		})
	}

	if err := s.championRepo.UpsertMany(ctx, champions); err != nil {
		return 0, fmt.Errorf("failed to upsert champions: %w", err)
	}
	return len(champions), nil
}
