package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/patch"
	"github.com/dom/war-planner/internal/repository/postgres"
	"github.com/dom/war-planner/internal/service"
	"github.com/dom/war-planner/internal/testutil"
	"github.com/dom/war-planner/internal/topology"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder keeps every published scope in order.
type recorder struct {
	mu     sync.Mutex
	scopes []string
}

func (r *recorder) Publish(_ context.Context, scope string) {
	r.mu.Lock()
	r.scopes = append(r.scopes, scope)
	r.mu.Unlock()
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.scopes
	r.scopes = nil
	return out
}

func newServices(t *testing.T) (*testutil.TestDB, *service.Services, *recorder) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	rec := &recorder{}
	services := service.NewServices(postgres.NewRepositories(testDB.DB), testutil.TestConfig(), rec)
	return testDB, services, rec
}

func TestPlanService_SavePlacement(t *testing.T) {
	testDB, services, rec := newServices(t)
	ctx := context.Background()
	testutil.SeedChampions(t, testDB.DB, "hulk")
	player, _ := testutil.NewPlayerBuilder().Build(t, testDB.DB)

	plan, err := services.Plan.CreatePlan(ctx, "Season 40", domain.MapTypeStandard)
	require.NoError(t, err)
	assert.Empty(t, rec.take())

	saved, err := services.Plan.SavePlacement(ctx, plan.ID, domain.PlacementPatch{
		Battlegroup: 2,
		NodeNumber:  14,
		DefenderID:  patch.Set("hulk"),
		PlayerID:    patch.Set(player.ID.String()),
		StarLevel:   patch.Set(7),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.PlanScope(plan.ID, 2)}, rec.take())
	assert.Equal(t, 14, saved.NodeNumber)
	assert.NotEqual(t, uuid.Nil, saved.NodeID)

	// A second save on the slot updates the same row.
	again, err := services.Plan.SavePlacement(ctx, plan.ID, domain.PlacementPatch{
		Battlegroup: 2,
		NodeNumber:  14,
		PlayerID:    patch.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	assert.Nil(t, again.PlayerID)
	require.NotNil(t, again.StarLevel)
	assert.Equal(t, 7, *again.StarLevel)

	_, err = services.Plan.SavePlacement(ctx, plan.ID, domain.PlacementPatch{Battlegroup: 2, NodeNumber: 14, DefenderID: patch.Set("ghost")})
	assert.ErrorIs(t, err, domain.ErrUnknownChampion)
	_, err = services.Plan.SavePlacement(ctx, plan.ID, domain.PlacementPatch{Battlegroup: 2})
	assert.ErrorIs(t, err, domain.ErrMissingSlot)
	assert.Empty(t, rec.take(), "rejected saves publish nothing")

	list, err := services.Plan.ListPlacements(ctx, plan.ID, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = services.Plan.ListPlacements(ctx, plan.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPlanService_CreatePlanSeedsNodesOnce(t *testing.T) {
	_, services, _ := newServices(t)
	ctx := context.Background()

	first, err := services.Plan.CreatePlan(ctx, "a", domain.MapTypeStandard)
	require.NoError(t, err)
	second, err := services.Plan.CreatePlan(ctx, "b", domain.MapTypeStandard)
	require.NoError(t, err)

	a, err := services.Plan.GetNodes(ctx, first.ID)
	require.NoError(t, err)
	b, err := services.Plan.GetNodes(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, a, len(topology.AssignableNumbers(domain.MapTypeStandard)))
	assert.Equal(t, a[0].ID, b[0].ID, "plans on one map share node rows")

	_, err = services.Plan.CreatePlan(ctx, "c", domain.MapType("TINY"))
	assert.ErrorIs(t, err, domain.ErrInvalidMapType)
}

func TestWarService_SaveFightChecksBans(t *testing.T) {
	testDB, services, rec := newServices(t)
	ctx := context.Background()
	testutil.SeedChampions(t, testDB.DB, "hulk", "thing", "storm")

	season, err := services.Ban.CreateSeason(ctx, "S1")
	require.NoError(t, err)
	war, err := services.War.CreateWar(ctx, service.CreateWarInput{SeasonID: season.ID, MapType: domain.MapTypeStandard, Tier: 5})
	require.NoError(t, err)
	rec.take()

	_, err = services.Ban.AddSeasonBan(ctx, season.ID, "hulk")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.SeasonScope(season.ID)}, rec.take())

	_, err = services.Ban.AddWarBan(ctx, war.ID, "thing")
	require.NoError(t, err)
	assert.Equal(t, []string{
		domain.WarScope(war.ID, 1), domain.WarScope(war.ID, 2), domain.WarScope(war.ID, 3),
	}, rec.take())

	_, err = services.War.SaveFight(ctx, war.ID, domain.FightPatch{Battlegroup: 1, NodeNumber: 9, AttackerID: patch.Set("hulk")})
	assert.ErrorIs(t, err, domain.ErrChampionBanned)
	_, err = services.War.SaveFight(ctx, war.ID, domain.FightPatch{Battlegroup: 1, NodeNumber: 9, AttackerID: patch.Set("thing")})
	assert.ErrorIs(t, err, domain.ErrChampionBanned)

	fight, err := services.War.SaveFight(ctx, war.ID, domain.FightPatch{
		Battlegroup: 1,
		NodeNumber:  9,
		AttackerID:  patch.Set("storm"),
		DefenderID:  patch.Set("hulk"),
		Death:       patch.Set(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "storm", *fight.AttackerID)
	assert.Equal(t, "hulk", *fight.DefenderID)
	assert.Equal(t, []string{domain.WarScope(war.ID, 1)}, rec.take())

	wars, err := services.War.ListWars(ctx, season.ID)
	require.NoError(t, err)
	require.Len(t, wars, 1)
	assert.Equal(t, 5, wars[0].Tier)
}

func TestBanService_WarBanLimit(t *testing.T) {
	testDB, services, _ := newServices(t)
	ctx := context.Background()
	testutil.SeedChampions(t, testDB.DB, "a", "b", "c")

	season, err := services.Ban.CreateSeason(ctx, "S1")
	require.NoError(t, err)
	war, err := services.War.CreateWar(ctx, service.CreateWarInput{SeasonID: season.ID, MapType: domain.MapTypeStandard, Tier: 1})
	require.NoError(t, err)

	require.Equal(t, 2, services.Ban.WarBanLimit())
	first, err := services.Ban.AddWarBan(ctx, war.ID, "a")
	require.NoError(t, err)
	_, err = services.Ban.AddWarBan(ctx, war.ID, "a")
	assert.ErrorIs(t, err, domain.ErrDuplicateBan)
	_, err = services.Ban.AddWarBan(ctx, war.ID, "b")
	require.NoError(t, err)
	_, err = services.Ban.AddWarBan(ctx, war.ID, "c")
	assert.ErrorIs(t, err, domain.ErrWarBanLimit)
	_, err = services.Ban.AddWarBan(ctx, war.ID, "zzz")
	assert.ErrorIs(t, err, domain.ErrUnknownChampion)

	require.NoError(t, services.Ban.RemoveWarBan(ctx, war.ID, first.ID))
	_, err = services.Ban.AddWarBan(ctx, war.ID, "c")
	require.NoError(t, err)

	bans, err := services.Ban.WarBans(ctx, war.ID)
	require.NoError(t, err)
	assert.Len(t, bans, 2)
}

func TestWarService_Extras(t *testing.T) {
	testDB, services, rec := newServices(t)
	ctx := context.Background()
	testutil.SeedChampions(t, testDB.DB, "hulk")
	player, _ := testutil.NewPlayerBuilder().InBattlegroup(3).Build(t, testDB.DB)

	season, err := services.Ban.CreateSeason(ctx, "S1")
	require.NoError(t, err)
	war, err := services.War.CreateWar(ctx, service.CreateWarInput{SeasonID: season.ID, MapType: domain.MapTypeBigThing, Tier: 1})
	require.NoError(t, err)
	rec.take()

	extra, err := services.War.AddExtra(ctx, war.ID, domain.ExtraInput{PlayerID: player.ID.String(), ChampionID: "hulk", Battlegroup: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.WarScope(war.ID, 3)}, rec.take())

	_, err = services.War.AddExtra(ctx, war.ID, domain.ExtraInput{ChampionID: "hulk", Battlegroup: 3})
	assert.ErrorIs(t, err, domain.ErrMissingSlot)
	_, err = services.War.AddExtra(ctx, war.ID, domain.ExtraInput{PlayerID: player.ID.String(), ChampionID: "ghost", Battlegroup: 3})
	assert.ErrorIs(t, err, domain.ErrUnknownChampion)

	extras, err := services.War.ListExtras(ctx, war.ID, 3)
	require.NoError(t, err)
	require.Len(t, extras, 1)

	require.NoError(t, services.War.RemoveExtra(ctx, war.ID, extra.ID))
	assert.Equal(t, []string{domain.WarScope(war.ID, 3)}, rec.take())
	assert.Error(t, services.War.RemoveExtra(ctx, war.ID, extra.ID))
}

func TestBanService_TacticsByTier(t *testing.T) {
	_, services, rec := newServices(t)
	ctx := context.Background()

	season, err := services.Ban.CreateSeason(ctx, "S1")
	require.NoError(t, err)
	rec.take()

	_, err = services.Ban.AddTactic(ctx, season.ID, service.TacticInput{Name: "Low", MaxTier: 5})
	require.NoError(t, err)
	high, err := services.Ban.AddTactic(ctx, season.ID, service.TacticInput{Name: "High", MinTier: 10})
	require.NoError(t, err)
	assert.Equal(t, 99, high.MaxTier)
	assert.Equal(t, []string{domain.SeasonScope(season.ID), domain.SeasonScope(season.ID)}, rec.take())

	tests := []struct {
		tier int
		want []string
	}{
		{tier: 0, want: []string{"Low", "High"}},
		{tier: 3, want: []string{"Low"}},
		{tier: 7},
		{tier: 12, want: []string{"High"}},
	}
	for _, tt := range tests {
		tactics, err := services.Ban.Tactics(ctx, season.ID, tt.tier)
		require.NoError(t, err)
		var names []string
		for _, tactic := range tactics {
			names = append(names, tactic.Name)
		}
		assert.ElementsMatch(t, tt.want, names, "tier %d", tt.tier)
	}

	_, err = services.Ban.Tactics(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanService_SetAllocations(t *testing.T) {
	_, services, _ := newServices(t)
	ctx := context.Background()

	plan, err := services.Plan.CreatePlan(ctx, "a", domain.MapTypeStandard)
	require.NoError(t, err)

	number := topology.AssignableNumbers(domain.MapTypeStandard)[0]
	require.NoError(t, services.Plan.SetAllocations(ctx, domain.MapTypeStandard, number, []domain.NodeAllocation{
		{Name: "Power Gain", Tier: 2},
	}))

	nodes, err := services.Plan.GetNodes(ctx, plan.ID)
	require.NoError(t, err)
	assert.Contains(t, string(nodes[0].Allocations), "Power Gain")

	err = services.Plan.SetAllocations(ctx, domain.MapTypeStandard, 999, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
	err = services.Plan.SetAllocations(ctx, domain.MapType("TINY"), number, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMapType)
}
