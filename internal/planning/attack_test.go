package planning_test

import (
	"context"
	"testing"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warFixture struct {
	remote *fakeRemote
	extras *fakeExtras
	bans   *fakeBans
	war    *planning.WarPlanner
}

func newWar(t *testing.T, limit int, setup func(f *warFixture)) *warFixture {
	t.Helper()
	f := &warFixture{
		remote: newFakeRemote(domain.MapTypeStandard),
		extras: &fakeExtras{},
		bans:   &fakeBans{bans: map[string][]planning.Ban{}},
	}
	if setup != nil {
		setup(f)
	}
	w, err := planning.NewWarPlanner(f.remote, nil, planning.WarOptions{
		Options:     baseOptions("war-1"),
		SeasonID:    "season-1",
		WarBanLimit: limit,
		Extras:      f.extras,
		Bans:        f.bans,
	})
	require.NoError(t, err)
	require.NoError(t, w.Load(context.Background()))
	t.Cleanup(w.Close)
	f.war = w
	return f
}

func TestAssignAttacker_PromotesMatchingExtra(t *testing.T) {
	f := newWar(t, 0, func(f *warFixture) {
		f.extras.extras = []planning.Extra{
			{ID: "extra-7", WarID: "war-1", PlayerID: "p1", ChampionID: "hulk", Battlegroup: 1},
			{ID: "extra-8", WarID: "war-1", PlayerID: "p1", ChampionID: "thor", Battlegroup: 1},
		}
	})
	require.Len(t, f.war.Extras(), 2)

	require.NoError(t, f.war.AssignAttacker(context.Background(), 4, "p1", "hulk"))
	f.war.Wait()

	extras := f.war.Extras()
	require.Len(t, extras, 1)
	assert.Equal(t, "extra-8", extras[0].ID)
	assert.Equal(t, []string{"extra-7"}, f.extras.removed)

	rec, ok := f.war.Record(4)
	require.True(t, ok)
	assert.Equal(t, "hulk", *rec.ChampionID)
}

func TestAssignAttacker_Bans(t *testing.T) {
	f := newWar(t, 0, func(f *warFixture) {
		f.bans.bans["season:season-1"] = []planning.Ban{{ID: "ban-s", ChampionID: "doom"}}
		f.bans.bans["war:war-1"] = []planning.Ban{{ID: "ban-w", ChampionID: "hulk"}}
	})
	ctx := context.Background()

	err := f.war.AssignAttacker(ctx, 4, "p1", "doom")
	require.Error(t, err)
	assert.Equal(t, "This champion is globally banned for this season.", err.Error())

	err = f.war.AssignAttacker(ctx, 4, "p1", "hulk")
	require.Error(t, err)
	assert.Equal(t, "This champion is banned for this war.", err.Error())

	assert.Empty(t, f.remote.savedRecords())
}

func TestAssignAttacker_LimitCountsExtras(t *testing.T) {
	f := newWar(t, 0, func(f *warFixture) {
		f.remote.seed(placement("war-1", 1, "a", "p1"))
		f.extras.extras = []planning.Extra{
			{ID: "extra-1", WarID: "war-1", PlayerID: "p1", ChampionID: "b", Battlegroup: 1},
			{ID: "extra-2", WarID: "war-1", PlayerID: "p1", ChampionID: "c", Battlegroup: 1},
		}
	})

	err := f.war.AssignAttacker(context.Background(), 2, "p1", "d")
	require.Error(t, err)
	assert.Equal(t, "Player already has 3 unique champions assigned.", err.Error())

	require.NoError(t, f.war.AssignAttacker(context.Background(), 2, "p1", "b"))
	f.war.Wait()
	assert.Len(t, f.war.Extras(), 1)
}

func TestWarPlanner_FightFields(t *testing.T) {
	f := newWar(t, 0, nil)
	ctx := context.Background()

	require.NoError(t, f.war.SetDefender(ctx, 5, strp("dormammu")))
	f.war.Wait()
	require.NoError(t, f.war.SetDeath(ctx, 5, intp(2)))
	f.war.Wait()

	rec, _ := f.war.Record(5)
	assert.Equal(t, "dormammu", *rec.DefenderID)
	assert.Equal(t, 2, *rec.Death)

	require.NoError(t, f.war.SetDeath(ctx, 5, nil))
	f.war.Wait()
	rec, _ = f.war.Record(5)
	assert.Nil(t, rec.Death)
	assert.Equal(t, "dormammu", *rec.DefenderID)

	saves := f.remote.savedRecords()
	assert.Nil(t, saves[len(saves)-1].Death)
}

func TestWarPlanner_SetPrefightsValidates(t *testing.T) {
	f := newWar(t, 0, func(f *warFixture) {
		f.bans.bans["war:war-1"] = []planning.Ban{{ID: "ban-w", ChampionID: "hulk"}}
	})
	ctx := context.Background()

	err := f.war.SetPrefights(ctx, 3, []planning.Prefight{{PlayerID: "p2", ChampionID: "hulk"}})
	assert.True(t, planning.IsValidation(err))

	require.NoError(t, f.war.SetPrefights(ctx, 3, []planning.Prefight{{PlayerID: "p2", ChampionID: "thor"}}))
	f.war.Wait()
	rec, _ := f.war.Record(3)
	assert.Equal(t, []planning.Prefight{{PlayerID: "p2", ChampionID: "thor"}}, rec.Prefights)
}

func TestWarPlanner_AddAndRemoveExtra(t *testing.T) {
	f := newWar(t, 0, nil)
	ctx := context.Background()

	extra, err := f.war.AddExtra(ctx, "p1", "hulk")
	require.NoError(t, err)
	assert.Equal(t, "extra-1", extra.ID)
	require.Len(t, f.war.Extras(), 1)
	assert.Equal(t, "extra-1", f.war.Extras()[0].ID)

	require.NoError(t, f.war.RemoveExtra(ctx, "extra-1"))
	assert.Empty(t, f.war.Extras())

	var notFound *planning.NotFoundError
	require.ErrorAs(t, f.war.RemoveExtra(ctx, "extra-1"), &notFound)
}

func TestWarPlanner_AddExtraFailureRemovesTempEntry(t *testing.T) {
	f := newWar(t, 0, func(f *warFixture) { f.extras.addErr = errUnavailable })

	_, err := f.war.AddExtra(context.Background(), "p1", "hulk")
	var netErr *planning.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Empty(t, f.war.Extras())
}

func TestWarPlanner_WarBanLimit(t *testing.T) {
	f := newWar(t, 2, nil)
	ctx := context.Background()

	first, err := f.war.AddBan(ctx, planning.WarBan, "a")
	require.NoError(t, err)
	assert.Equal(t, "ban-1", first.ID)
	_, err = f.war.AddBan(ctx, planning.WarBan, "b")
	require.NoError(t, err)

	_, err = f.war.AddBan(ctx, planning.WarBan, "c")
	assert.True(t, planning.IsValidation(err))
	_, err = f.war.AddBan(ctx, planning.SeasonBan, "a")
	require.NoError(t, err)
	_, err = f.war.AddBan(ctx, planning.SeasonBan, "a")
	assert.True(t, planning.IsValidation(err))

	require.NoError(t, f.war.RemoveBan(ctx, planning.WarBan, "ban-1"))
	bans := f.war.Bans(planning.WarBan)
	require.Len(t, bans, 1)
	assert.Equal(t, "b", bans[0].ChampionID)

	res := f.war.Validate("p1", "a", 4)
	assert.Equal(t, "This champion is globally banned for this season.", res.Error)
}

func TestWarPlanner_AddBanFailureRollsBack(t *testing.T) {
	f := newWar(t, 0, func(f *warFixture) { f.bans.addErr = errUnavailable })

	_, err := f.war.AddBan(context.Background(), planning.WarBan, "a")
	require.Error(t, err)
	assert.Empty(t, f.war.Bans(planning.WarBan))
	assert.Equal(t, err, f.war.LastError())
}
