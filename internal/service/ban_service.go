package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/war-planner/internal/config"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BanService struct {
	banRepo      repository.BanRepository
	warRepo      repository.WarRepository
	seasonRepo   repository.SeasonRepository
	championRepo repository.ChampionRepository
	warBanLimit  int
	pub          Publisher
}

func NewBanService(repos *repository.Repositories, cfg *config.Config, pub Publisher) *BanService {
	limit := cfg.WarBanLimit
	if limit <= 0 {
		limit = domain.DefaultWarBanLimit
	}
	return &BanService{
		banRepo:      repos.Ban,
		warRepo:      repos.War,
		seasonRepo:   repos.Season,
		championRepo: repos.Champion,
		warBanLimit:  limit,
		pub:          publisherOrNop(pub),
	}
}

func (s *BanService) WarBanLimit() int { return s.warBanLimit }

func (s *BanService) CreateSeason(ctx context.Context, name string) (*domain.Season, error) {
	season := &domain.Season{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	if err := s.seasonRepo.Create(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

func (s *BanService) SeasonBans(ctx context.Context, seasonID uuid.UUID) ([]*domain.SeasonBan, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, notFound(err)
	}
	return s.banRepo.GetSeasonBans(ctx, seasonID)
}

func (s *BanService) AddSeasonBan(ctx context.Context, seasonID uuid.UUID, championID string) (*domain.SeasonBan, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, notFound(err)
	}
	if err := s.requireChampion(ctx, championID); err != nil {
		return nil, err
	}
	ban := &domain.SeasonBan{
		ID:         uuid.New(),
		SeasonID:   seasonID,
		ChampionID: championID,
		CreatedAt:  time.Now(),
	}
	if err := s.banRepo.AddSeasonBan(ctx, ban); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, domain.SeasonScope(seasonID))
	return ban, nil
}

func (s *BanService) RemoveSeasonBan(ctx context.Context, seasonID, banID uuid.UUID) error {
	if err := s.banRepo.DeleteSeasonBan(ctx, seasonID, banID); err != nil {
		return err
	}
	s.pub.Publish(ctx, domain.SeasonScope(seasonID))
	return nil
}

func (s *BanService) WarBans(ctx context.Context, warID uuid.UUID) ([]*domain.WarBan, error) {
	if _, err := s.warRepo.GetByID(ctx, warID); err != nil {
		return nil, notFound(err)
	}
	return s.banRepo.GetWarBans(ctx, warID)
}

// AddWarBan bans a champion for one war, up to the configured limit.
func (s *BanService) AddWarBan(ctx context.Context, warID uuid.UUID, championID string) (*domain.WarBan, error) {
	if err := s.requireChampion(ctx, championID); err != nil {
		return nil, err
	}
	ban := &domain.WarBan{
		ID:         uuid.New(),
		WarID:      warID,
		ChampionID: championID,
		CreatedAt:  time.Now(),
	}
	if err := s.banRepo.AddWarBan(ctx, ban, s.warBanLimit); err != nil {
		return nil, err
	}
	s.publishWar(ctx, warID)
	return ban, nil
}

func (s *BanService) RemoveWarBan(ctx context.Context, warID, banID uuid.UUID) error {
	if err := s.banRepo.DeleteWarBan(ctx, warID, banID); err != nil {
		return err
	}
	s.publishWar(ctx, warID)
	return nil
}

// Tactics lists a season's tactics; a positive tier keeps only the ones
// active for it.
func (s *BanService) Tactics(ctx context.Context, seasonID uuid.UUID, tier int) ([]*domain.Tactic, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, notFound(err)
	}
	tactics, err := s.seasonRepo.GetTactics(ctx, seasonID)
	if err != nil || tier <= 0 {
		return tactics, err
	}
	active := tactics[:0]
	for _, t := range tactics {
		if t.AppliesTo(tier) {
			active = append(active, t)
		}
	}
	return active, nil
}

type TacticInput struct {
	Name       string `json:"name"`
	MinTier    int    `json:"minTier"`
	MaxTier    int    `json:"maxTier"`
	AttackTag  string `json:"attackTag"`
	DefenseTag string `json:"defenseTag"`
}

func (s *BanService) AddTactic(ctx context.Context, seasonID uuid.UUID, in TacticInput) (*domain.Tactic, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, notFound(err)
	}
	tactic := &domain.Tactic{
		ID:         uuid.New(),
		SeasonID:   seasonID,
		Name:       in.Name,
		MinTier:    max(in.MinTier, 1),
		MaxTier:    in.MaxTier,
		AttackTag:  in.AttackTag,
		DefenseTag: in.DefenseTag,
	}
	if tactic.MaxTier == 0 {
		tactic.MaxTier = 99
	}
	if err := s.seasonRepo.CreateTactic(ctx, tactic); err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, domain.SeasonScope(seasonID))
	return tactic, nil
}

func (s *BanService) requireChampion(ctx context.Context, championID string) error {
	if _, err := s.championRepo.GetByID(ctx, championID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownChampion, championID)
		}
		return err
	}
	return nil
}

// publishWar notifies every battlegroup of a war, since bans apply to all.
func (s *BanService) publishWar(ctx context.Context, warID uuid.UUID) {
	for _, bg := range domain.AllBattlegroups {
		s.pub.Publish(ctx, domain.WarScope(warID, bg))
	}
}
