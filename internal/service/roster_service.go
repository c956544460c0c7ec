package service

import (
	"context"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository"
	"github.com/google/uuid"
)

type RosterService struct {
	playerRepo repository.PlayerRepository
	rosterRepo repository.RosterRepository
}

func NewRosterService(playerRepo repository.PlayerRepository, rosterRepo repository.RosterRepository) *RosterService {
	return &RosterService{
		playerRepo: playerRepo,
		rosterRepo: rosterRepo,
	}
}

// ListPlayers returns the players of a battlegroup, or everyone for 0.
func (s *RosterService) ListPlayers(ctx context.Context, bg domain.Battlegroup) ([]*domain.Player, error) {
	if bg != 0 && !bg.IsValid() {
		return nil, domain.ErrInvalidBattlegroup
	}
	return s.playerRepo.List(ctx, bg)
}

func (s *RosterService) GetRoster(ctx context.Context, playerID uuid.UUID) ([]*domain.RosterEntry, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, notFound(err)
	}
	return s.rosterRepo.GetByPlayerID(ctx, playerID)
}

func (s *RosterService) SetRosterEntry(ctx context.Context, playerID uuid.UUID, championID string, stars, rank int) (*domain.RosterEntry, error) {
	entry := &domain.RosterEntry{
		ID:         uuid.New(),
		PlayerID:   playerID,
		ChampionID: championID,
		Stars:      stars,
		Rank:       rank,
		UpdatedAt:  time.Now(),
	}
	if err := s.rosterRepo.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
