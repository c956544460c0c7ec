package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/war-planner/internal/client"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/dom/war-planner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefensePlanner_AgainstServer(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedChampions(t, ts.DB.DB, "hulk", "thing")
	player, token := testutil.NewPlayerBuilder().InBattlegroup(1).BuildAndAuthenticate(t, ts)
	plan := testutil.CreatePlan(t, ts, domain.MapTypeStandard)
	ctx := context.Background()

	open := func() *planning.DefensePlanner {
		c := client.New(ts.BaseURL(), client.WithToken(token))
		d, err := planning.NewDefensePlanner(c.Placements(), c, planning.Options{
			MapType:      domain.MapTypeStandard,
			ScopeID:      plan.ID.String(),
			Battlegroup:  1,
			PollInterval: time.Hour,
		})
		require.NoError(t, err)
		require.NoError(t, d.Load(ctx))
		t.Cleanup(d.Close)
		return d
	}

	editor := open()
	viewer := open()
	viewer.Start()

	sub, err := client.New(ts.BaseURL(), client.WithToken(token)).
		Subscribe(ctx, domain.PlanScope(plan.ID, 1), viewer)
	require.NoError(t, err)
	defer sub.Close()

	assert.Len(t, editor.Nodes(), 50)

	require.NoError(t, editor.AssignDefender(7, player.ID.String(), "hulk", nil))
	editor.Wait()
	require.NoError(t, editor.LastError())

	rec, ok := editor.Record(7)
	require.True(t, ok)
	assert.Equal(t, planning.SyncConfirmed, editor.SyncState(rec.ID).Status)
	require.NotNil(t, rec.Champion)
	assert.Equal(t, "hulk", rec.Champion.Name)

	// The poll interval is an hour, so only the change notification can
	// bring the viewer up to date.
	assert.Eventually(t, func() bool {
		r, ok := viewer.Record(7)
		return ok && r.ChampionID != nil && *r.ChampionID == "hulk"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, editor.RemovePlacement(rec.ID))
	editor.Wait()
	stored, err := ts.Repos.Placement.GetBySlot(ctx, plan.ID, 1, 7)
	require.NoError(t, err)
	assert.Nil(t, stored.DefenderID)
	require.NotNil(t, stored.PlayerID)
	assert.Equal(t, player.ID, *stored.PlayerID)
}

func TestWarPlanner_AgainstServer(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.SeedChampions(t, ts.DB.DB, "hulk", "thing", "storm")
	player, _ := testutil.NewPlayerBuilder().InBattlegroup(2).BuildAndAuthenticate(t, ts)
	_, officerToken := testutil.NewPlayerBuilder().AsOfficer().BuildAndAuthenticate(t, ts)
	season, war := testutil.CreateSeasonAndWar(t, ts, domain.MapTypeStandard)
	ctx := context.Background()

	c := client.New(ts.BaseURL(), client.WithToken(officerToken))
	limit, err := c.WarBanLimit(ctx, war.ID.String())
	require.NoError(t, err)

	w, err := planning.NewWarPlanner(c.Fights(), c, planning.WarOptions{
		Options: planning.Options{
			MapType:      domain.MapTypeStandard,
			ScopeID:      war.ID.String(),
			Battlegroup:  2,
			PollInterval: -1,
		},
		SeasonID:    season.ID.String(),
		WarBanLimit: limit,
		Extras:      c,
		Bans:        c,
	})
	require.NoError(t, err)
	t.Cleanup(w.Close)
	require.NoError(t, w.Load(ctx))

	_, err = w.AddBan(ctx, planning.WarBan, "thing")
	require.NoError(t, err)
	res := w.Validate(player.ID.String(), "thing", 3)
	assert.False(t, res.IsValid)

	extra, err := w.AddExtra(ctx, player.ID.String(), "storm")
	require.NoError(t, err)
	assert.NotContains(t, extra.ID, "temp")

	// Assigning the staged champion consumes the extra.
	require.NoError(t, w.AssignAttacker(ctx, 3, player.ID.String(), "storm"))
	w.Wait()
	require.NoError(t, w.LastError())
	assert.Empty(t, w.Extras())

	extras, err := c.FetchExtras(ctx, war.ID.String(), 2)
	require.NoError(t, err)
	assert.Empty(t, extras)

	fights, err := c.Fights().FetchAll(ctx, war.ID.String(), 2)
	require.NoError(t, err)
	require.Len(t, fights, 1)
	assert.Equal(t, "storm", *fights[0].ChampionID)
	assert.Equal(t, player.ID.String(), *fights[0].PlayerID)
}
