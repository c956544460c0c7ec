package repository

import (
	"context"

	"github.com/dom/war-planner/internal/domain"
	"github.com/google/uuid"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *domain.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	GetByName(ctx context.Context, name string) (*domain.Player, error)
	// List returns players of one battlegroup, or all players when bg is 0.
	List(ctx context.Context, bg domain.Battlegroup) ([]*domain.Player, error)
}

type RosterRepository interface {
	Upsert(ctx context.Context, entry *domain.RosterEntry) error
	GetByPlayerID(ctx context.Context, playerID uuid.UUID) ([]*domain.RosterEntry, error)
}

type ChampionRepository interface {
	Upsert(ctx context.Context, champion *domain.Champion) error
	UpsertMany(ctx context.Context, champions []*domain.Champion) error
	GetAll(ctx context.Context) ([]*domain.Champion, error)
	GetByID(ctx context.Context, id string) (*domain.Champion, error)
}

type NodeRepository interface {
	// EnsureMap creates the node rows of a map from its topology.
	EnsureMap(ctx context.Context, mapType domain.MapType) error
	GetByMap(ctx context.Context, mapType domain.MapType) ([]*domain.WarNode, error)
	GetByNumber(ctx context.Context, mapType domain.MapType, number int) (*domain.WarNode, error)
	SetAllocations(ctx context.Context, mapType domain.MapType, number int, allocations []domain.NodeAllocation) error
}

type PlanRepository interface {
	Create(ctx context.Context, plan *domain.DefensePlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DefensePlan, error)
	List(ctx context.Context) ([]*domain.DefensePlan, error)
}

type PlacementRepository interface {
	GetByPlan(ctx context.Context, planID uuid.UUID, bg domain.Battlegroup) ([]*domain.Placement, error)
	GetBySlot(ctx context.Context, planID uuid.UUID, bg domain.Battlegroup, nodeNumber int) (*domain.Placement, error)
	// Save upserts on (plan, battlegroup, node number).
	Save(ctx context.Context, placement *domain.Placement) error
}

type WarRepository interface {
	Create(ctx context.Context, war *domain.War) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.War, error)
	ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*domain.War, error)
}

type FightRepository interface {
	GetByWar(ctx context.Context, warID uuid.UUID, bg domain.Battlegroup) ([]*domain.Fight, error)
	GetBySlot(ctx context.Context, warID uuid.UUID, bg domain.Battlegroup, nodeNumber int) (*domain.Fight, error)
	// Save upserts on (war, battlegroup, node number).
	Save(ctx context.Context, fight *domain.Fight) error
}

type ExtraRepository interface {
	Create(ctx context.Context, extra *domain.ExtraChampion) error
	GetByWar(ctx context.Context, warID uuid.UUID, bg domain.Battlegroup) ([]*domain.ExtraChampion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtraChampion, error)
	Delete(ctx context.Context, warID, id uuid.UUID) error
}

type SeasonRepository interface {
	Create(ctx context.Context, season *domain.Season) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Season, error)
	CreateTactic(ctx context.Context, tactic *domain.Tactic) error
	GetTactics(ctx context.Context, seasonID uuid.UUID) ([]*domain.Tactic, error)
}

type BanRepository interface {
	GetSeasonBans(ctx context.Context, seasonID uuid.UUID) ([]*domain.SeasonBan, error)
	AddSeasonBan(ctx context.Context, ban *domain.SeasonBan) error
	DeleteSeasonBan(ctx context.Context, seasonID, id uuid.UUID) error

	GetWarBans(ctx context.Context, warID uuid.UUID) ([]*domain.WarBan, error)
	// AddWarBan fails with domain.ErrWarBanLimit once the war holds limit bans.
	AddWarBan(ctx context.Context, ban *domain.WarBan, limit int) error
	DeleteWarBan(ctx context.Context, warID, id uuid.UUID) error
}

type Repositories struct {
	Player    PlayerRepository
	Roster    RosterRepository
	Champion  ChampionRepository
	Node      NodeRepository
	Plan      PlanRepository
	Placement PlacementRepository
	War       WarRepository
	Fight     FightRepository
	Extra     ExtraRepository
	Season    SeasonRepository
	Ban       BanRepository
}
