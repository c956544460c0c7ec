package planning_test

import (
	"context"
	"testing"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFromTool_EmptyPlanPicksLowestNode(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	catalog := &fakeCatalog{
		champions: []planning.ChampionSummary{{ID: "hulk", Name: "Hulk", Class: "SCIENCE"}},
		players:   []planning.PlayerSummary{{ID: "p1", Name: "Thor", Battlegroup: 1}},
		rosters: map[string][]planning.RosterChampion{
			"p1": {{ChampionID: "hulk", Stars: 7, Rank: 3}},
		},
	}
	d, err := planning.NewDefensePlanner(remote, catalog, baseOptions("plan-1"))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.LoadRoster(ctx, "p1"))
	t.Cleanup(d.Close)

	remote.hold()
	target, err := d.AddFromTool("p1", "hulk", nil)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, 1, target.NodeNumber)
	assert.Equal(t, "node-1", target.NodeID)

	rec, ok := d.Record(1)
	require.True(t, ok)
	assert.True(t, d.IsPending(1))
	assert.Equal(t, 3, *rec.StarLevel)
	require.NotNil(t, rec.Champion)
	assert.Equal(t, "Hulk", rec.Champion.Name)
	require.NotNil(t, rec.Player)
	assert.Equal(t, "Thor", rec.Player.Name)

	remote.release()
	d.Wait()

	saves := remote.savedRecords()
	require.Len(t, saves, 1)
	assert.Equal(t, 3, *saves[0].StarLevel)
	assert.False(t, d.IsPending(1))
}

func TestAddFromTool_UsesSelectedNode(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	d := newDefense(t, remote, baseOptions("plan-1"))

	require.NoError(t, d.Select(12))
	target, err := d.AddFromTool("p1", "hulk", intp(6))
	require.NoError(t, err)
	assert.Equal(t, 12, target.NodeNumber)
	d.Wait()

	rec, ok := d.Record(12)
	require.True(t, ok)
	assert.Equal(t, 6, *rec.StarLevel)
}

func TestAddFromTool_FillsPlayersReservedSlot(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 1, "", ""), placement("plan-1", 4, "", "p1"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	target, err := d.AddFromTool("p1", "hulk", nil)
	require.NoError(t, err)
	assert.Equal(t, "p-4", target.PlacementID)
	d.Wait()

	rec, _ := d.Record(4)
	assert.Equal(t, "p-4", rec.ID)
	assert.Equal(t, "hulk", *rec.ChampionID)
	assert.Nil(t, rec.StarLevel)
}

func TestAddFromTool_RejectedByLimit(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeBigThing)
	remote.seed(placement("plan-1", 1, "a", "p1"))
	opts := baseOptions("plan-1")
	opts.MapType = domain.MapTypeBigThing
	d := newDefense(t, remote, opts)

	_, err := d.AddFromTool("p1", "b", nil)
	require.Error(t, err)
	assert.Equal(t, "Player already has 1 unique champions assigned.", err.Error())
	assert.Empty(t, remote.savedRecords())
}

func TestAddFromTool_NoNodeLeft(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeBigThing)
	for n := 1; n <= 10; n++ {
		remote.seed(placement("plan-1", n, "c", "other"))
	}
	opts := baseOptions("plan-1")
	opts.MapType = domain.MapTypeBigThing
	d := newDefense(t, remote, opts)

	_, err := d.AddFromTool("p1", "b", nil)
	var notFound *planning.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, err, d.LastError())
}

func TestMoveDefender_SwapsOccupiedNodes(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	source := placement("plan-1", 1, "x", "p1")
	source.StarLevel = intp(6)
	remote.seed(source, placement("plan-1", 2, "y", "p2"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	require.NoError(t, d.MoveDefender(context.Background(), "p-1", "node-2"))

	moved, _ := d.Record(2)
	assert.Equal(t, "x", *moved.ChampionID)
	assert.Equal(t, "p1", *moved.PlayerID)
	assert.Equal(t, 6, *moved.StarLevel)

	back, _ := d.Record(1)
	assert.Equal(t, "y", *back.ChampionID)
	assert.Equal(t, "p2", *back.PlayerID)
	assert.Nil(t, back.StarLevel)

	saves := remote.savedRecords()
	require.Len(t, saves, 2)
	assert.Equal(t, 2, saves[0].NodeNumber)
	assert.Equal(t, 1, saves[1].NodeNumber)
}

func TestMoveDefender_IntoEmptyNodeClearsSource(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 1, "x", "p1"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	require.NoError(t, d.MoveDefender(context.Background(), "p-1", "9"))

	moved, ok := d.Record(9)
	require.True(t, ok)
	assert.Equal(t, "x", *moved.ChampionID)
	assert.Equal(t, "node-9", moved.NodeID)

	source, _ := d.Record(1)
	assert.Nil(t, source.ChampionID)
	assert.Nil(t, source.PlayerID)
}

func TestMoveDefender_SecondSaveFailureKeepsFirst(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 1, "x", "p1"), placement("plan-1", 2, "y", "p2"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	remote.setFailSave(func(call int, _ planning.Record) error {
		if call == 2 {
			return errUnavailable
		}
		return nil
	})

	err := d.MoveDefender(context.Background(), "p-1", "node-2")
	var netErr *planning.NetworkError
	require.ErrorAs(t, err, &netErr)

	target, _ := d.Record(2)
	assert.Equal(t, "x", *target.ChampionID)
	source, _ := d.Record(1)
	assert.Equal(t, "x", *source.ChampionID)
	assert.Equal(t, "p1", *source.PlayerID)
}

func TestMoveDefender_Rejections(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 1, "x", "p1"))
	d := newDefense(t, remote, baseOptions("plan-1"))
	ctx := context.Background()

	var notFound *planning.NotFoundError
	require.ErrorAs(t, d.MoveDefender(ctx, "p-1", "node-999"), &notFound)
	require.ErrorAs(t, d.MoveDefender(ctx, "p-404", "node-2"), &notFound)
	require.NoError(t, d.MoveDefender(ctx, "p-1", "node-1"))

	assert.Empty(t, remote.savedRecords())
}
