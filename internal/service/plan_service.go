package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanService struct {
	planRepo      repository.PlanRepository
	placementRepo repository.PlacementRepository
	nodeRepo      repository.NodeRepository
	playerRepo    repository.PlayerRepository
	championRepo  repository.ChampionRepository
	pub           Publisher
}

func NewPlanService(repos *repository.Repositories, pub Publisher) *PlanService {
	return &PlanService{
		planRepo:      repos.Plan,
		placementRepo: repos.Placement,
		nodeRepo:      repos.Node,
		playerRepo:    repos.Player,
		championRepo:  repos.Champion,
		pub:           publisherOrNop(pub),
	}
}

func (s *PlanService) CreatePlan(ctx context.Context, name string, mapType domain.MapType) (*domain.DefensePlan, error) {
	if !mapType.IsValid() {
		return nil, domain.ErrInvalidMapType
	}
	if err := s.nodeRepo.EnsureMap(ctx, mapType); err != nil {
		return nil, err
	}
	plan := &domain.DefensePlan{
		ID:        uuid.New(),
		Name:      name,
		MapType:   mapType,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*domain.DefensePlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return plan, nil
}

func (s *PlanService) ListPlans(ctx context.Context) ([]*domain.DefensePlan, error) {
	return s.planRepo.List(ctx)
}

// GetNodes returns the node rows of the plan's map.
func (s *PlanService) GetNodes(ctx context.Context, planID uuid.UUID) ([]*domain.WarNode, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.nodeRepo.GetByMap(ctx, plan.MapType)
}

// SetAllocations replaces the node modifiers of one node of a map. Every
// plan and war on that map sees the change.
func (s *PlanService) SetAllocations(ctx context.Context, mapType domain.MapType, number int, allocations []domain.NodeAllocation) error {
	if !mapType.IsValid() {
		return domain.ErrInvalidMapType
	}
	if err := s.nodeRepo.EnsureMap(ctx, mapType); err != nil {
		return err
	}
	if _, err := s.nodeRepo.GetByNumber(ctx, mapType, number); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", domain.ErrInvalidNode, number)
		}
		return err
	}
	return s.nodeRepo.SetAllocations(ctx, mapType, number, allocations)
}

func (s *PlanService) ListPlacements(ctx context.Context, planID uuid.UUID, bg int) ([]*domain.Placement, error) {
	battlegroup, err := domain.ParseBattlegroup(bg)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.placementRepo.GetByPlan(ctx, planID, battlegroup)
}

// SavePlacement upserts the placement on the patch's slot. Fields the patch
// omits keep their stored value.
func (s *PlanService) SavePlacement(ctx context.Context, planID uuid.UUID, in domain.PlacementPatch) (*domain.Placement, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	bg, err := domain.ParseBattlegroup(in.Battlegroup)
	if err != nil {
		return nil, err
	}
	node, err := resolveNode(ctx, s.nodeRepo, plan.MapType, in.NodeNumber, in.NodeID)
	if err != nil {
		return nil, err
	}

	placement, err := s.placementRepo.GetBySlot(ctx, plan.ID, bg, node.NodeNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		placement = &domain.Placement{
			ID:          uuid.New(),
			PlanID:      plan.ID,
			Battlegroup: bg,
			NodeNumber:  node.NodeNumber,
		}
	} else if err != nil {
		return nil, err
	}

	if err := applyChampion(ctx, s.championRepo, in.DefenderID, &placement.DefenderID); err != nil {
		return nil, err
	}
	if err := applyPlayer(ctx, s.playerRepo, in.PlayerID, &placement.PlayerID); err != nil {
		return nil, err
	}
	in.StarLevel.Apply(&placement.StarLevel)
	in.Notes.ApplyValue(&placement.Notes)
	placement.NodeID = node.ID
	placement.UpdatedAt = time.Now()
	placement.Defender, placement.Player = nil, nil

	if err := s.placementRepo.Save(ctx, placement); err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, domain.PlanScope(plan.ID, bg))
	return s.placementRepo.GetBySlot(ctx, plan.ID, bg, node.NodeNumber)
}
