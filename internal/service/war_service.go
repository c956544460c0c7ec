package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WarService struct {
	warRepo      repository.WarRepository
	fightRepo    repository.FightRepository
	extraRepo    repository.ExtraRepository
	nodeRepo     repository.NodeRepository
	banRepo      repository.BanRepository
	seasonRepo   repository.SeasonRepository
	playerRepo   repository.PlayerRepository
	championRepo repository.ChampionRepository
	pub          Publisher
}

func NewWarService(repos *repository.Repositories, pub Publisher) *WarService {
	return &WarService{
		warRepo:      repos.War,
		fightRepo:    repos.Fight,
		extraRepo:    repos.Extra,
		nodeRepo:     repos.Node,
		banRepo:      repos.Ban,
		seasonRepo:   repos.Season,
		playerRepo:   repos.Player,
		championRepo: repos.Champion,
		pub:          publisherOrNop(pub),
	}
}

type CreateWarInput struct {
	SeasonID uuid.UUID
	Opponent string
	MapType  domain.MapType
	Tier     int
}

func (s *WarService) CreateWar(ctx context.Context, input CreateWarInput) (*domain.War, error) {
	if !input.MapType.IsValid() {
		return nil, domain.ErrInvalidMapType
	}
	if _, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return nil, notFound(err)
	}
	if err := s.nodeRepo.EnsureMap(ctx, input.MapType); err != nil {
		return nil, err
	}
	if input.Tier <= 0 {
		input.Tier = 1
	}
	war := &domain.War{
		ID:        uuid.New(),
		SeasonID:  input.SeasonID,
		Opponent:  input.Opponent,
		MapType:   input.MapType,
		Tier:      input.Tier,
		CreatedAt: time.Now(),
	}
	if err := s.warRepo.Create(ctx, war); err != nil {
		return nil, err
	}
	return war, nil
}

func (s *WarService) GetWar(ctx context.Context, id uuid.UUID) (*domain.War, error) {
	war, err := s.warRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return war, nil
}

func (s *WarService) ListWars(ctx context.Context, seasonID uuid.UUID) ([]*domain.War, error) {
	if _, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, notFound(err)
	}
	return s.warRepo.ListBySeason(ctx, seasonID)
}

func (s *WarService) GetNodes(ctx context.Context, warID uuid.UUID) ([]*domain.WarNode, error) {
	war, err := s.GetWar(ctx, warID)
	if err != nil {
		return nil, err
	}
	return s.nodeRepo.GetByMap(ctx, war.MapType)
}

func (s *WarService) ListFights(ctx context.Context, warID uuid.UUID, bg int) ([]*domain.Fight, error) {
	battlegroup, err := domain.ParseBattlegroup(bg)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetWar(ctx, warID); err != nil {
		return nil, err
	}
	return s.fightRepo.GetByWar(ctx, warID, battlegroup)
}

// SaveFight upserts the fight on the patch's slot. A newly set attacker
// must not be banned for the war or its season.
func (s *WarService) SaveFight(ctx context.Context, warID uuid.UUID, in domain.FightPatch) (*domain.Fight, error) {
	war, err := s.GetWar(ctx, warID)
	if err != nil {
		return nil, err
	}
	bg, err := domain.ParseBattlegroup(in.Battlegroup)
	if err != nil {
		return nil, err
	}
	node, err := resolveNode(ctx, s.nodeRepo, war.MapType, in.NodeNumber, in.NodeID)
	if err != nil {
		return nil, err
	}

	if attacker, ok := in.AttackerID.Value(); ok {
		if err := s.checkBans(ctx, war, attacker); err != nil {
			return nil, err
		}
	}

	fight, err := s.fightRepo.GetBySlot(ctx, war.ID, bg, node.NodeNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fight = &domain.Fight{
			ID:          uuid.New(),
			WarID:       war.ID,
			Battlegroup: bg,
			NodeNumber:  node.NodeNumber,
			Prefights:   datatypes.JSON("[]"),
		}
	} else if err != nil {
		return nil, err
	}

	if err := applyChampion(ctx, s.championRepo, in.AttackerID, &fight.AttackerID); err != nil {
		return nil, err
	}
	if err := applyChampion(ctx, s.championRepo, in.DefenderID, &fight.DefenderID); err != nil {
		return nil, err
	}
	if err := applyPlayer(ctx, s.playerRepo, in.PlayerID, &fight.PlayerID); err != nil {
		return nil, err
	}
	in.Death.Apply(&fight.Death)
	in.Notes.ApplyValue(&fight.Notes)
	if !in.Prefights.IsUnset() {
		prefights, _ := in.Prefights.Value()
		if prefights == nil {
			prefights = []domain.Prefight{}
		}
		data, err := json.Marshal(prefights)
		if err != nil {
			return nil, err
		}
		fight.Prefights = data
	}
	fight.NodeID = node.ID
	fight.UpdatedAt = time.Now()
	fight.Attacker, fight.Defender, fight.Player = nil, nil, nil

	if err := s.fightRepo.Save(ctx, fight); err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, domain.WarScope(war.ID, bg))
	return s.fightRepo.GetBySlot(ctx, war.ID, bg, node.NodeNumber)
}

func (s *WarService) checkBans(ctx context.Context, war *domain.War, championID string) error {
	seasonBans, err := s.banRepo.GetSeasonBans(ctx, war.SeasonID)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(seasonBans, func(b *domain.SeasonBan) bool { return b.ChampionID == championID }) {
		return fmt.Errorf("%w for this season: %s", domain.ErrChampionBanned, championID)
	}
	warBans, err := s.banRepo.GetWarBans(ctx, war.ID)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(warBans, func(b *domain.WarBan) bool { return b.ChampionID == championID }) {
		return fmt.Errorf("%w for this war: %s", domain.ErrChampionBanned, championID)
	}
	return nil
}

func (s *WarService) ListExtras(ctx context.Context, warID uuid.UUID, bg int) ([]*domain.ExtraChampion, error) {
	battlegroup, err := domain.ParseBattlegroup(bg)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetWar(ctx, warID); err != nil {
		return nil, err
	}
	return s.extraRepo.GetByWar(ctx, warID, battlegroup)
}

func (s *WarService) AddExtra(ctx context.Context, warID uuid.UUID, in domain.ExtraInput) (*domain.ExtraChampion, error) {
	war, err := s.GetWar(ctx, warID)
	if err != nil {
		return nil, err
	}
	bg, err := domain.ParseBattlegroup(in.Battlegroup)
	if err != nil {
		return nil, err
	}

	var playerID *uuid.UUID
	if err := applyPlayer(ctx, s.playerRepo, patchValue(in.PlayerID), &playerID); err != nil {
		return nil, err
	}
	var championID *string
	if err := applyChampion(ctx, s.championRepo, patchValue(in.ChampionID), &championID); err != nil {
		return nil, err
	}
	if playerID == nil || championID == nil {
		return nil, domain.ErrMissingSlot
	}
	if err := s.checkBans(ctx, war, *championID); err != nil {
		return nil, err
	}

	extra := &domain.ExtraChampion{
		ID:          uuid.New(),
		WarID:       war.ID,
		PlayerID:    *playerID,
		ChampionID:  *championID,
		Battlegroup: bg,
		CreatedAt:   time.Now(),
	}
	if err := s.extraRepo.Create(ctx, extra); err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, domain.WarScope(war.ID, bg))
	return extra, nil
}

func (s *WarService) RemoveExtra(ctx context.Context, warID, extraID uuid.UUID) error {
	extra, err := s.extraRepo.GetByID(ctx, extraID)
	if err != nil {
		return notFound(err)
	}
	if extra.WarID != warID {
		return domain.ErrNotFound
	}
	if err := s.extraRepo.Delete(ctx, warID, extraID); err != nil {
		return err
	}
	s.pub.Publish(ctx, domain.WarScope(warID, extra.Battlegroup))
	return nil
}
