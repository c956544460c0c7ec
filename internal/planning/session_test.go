package planning_test

import (
	"testing"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/dom/war-planner/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_RejectsBadScope(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)

	opts := baseOptions("plan-1")
	opts.MapType = "SMALL"
	_, err := planning.NewSession(remote, nil, opts)
	assert.ErrorIs(t, err, domain.ErrInvalidMapType)

	opts = baseOptions("plan-1")
	opts.Battlegroup = 4
	_, err = planning.NewSession(remote, nil, opts)
	assert.ErrorIs(t, err, domain.ErrInvalidBattlegroup)
}

func TestSession_Navigate(t *testing.T) {
	d := newDefense(t, newFakeRemote(domain.MapTypeStandard), baseOptions("plan-1"))

	_, moved := d.Navigate(topology.Right)
	assert.False(t, moved)

	require.NoError(t, d.Select(3))
	next, moved := d.Navigate(topology.Down)
	require.True(t, moved)
	assert.Equal(t, 12, next)

	next, _ = d.Navigate(topology.Up)
	assert.Equal(t, 3, next)
	next, _ = d.Navigate(topology.Up)
	assert.Equal(t, 44, next)

	selected, ok := d.Selected()
	assert.True(t, ok)
	assert.Equal(t, 44, selected)

	d.ClearSelection()
	_, ok = d.Selected()
	assert.False(t, ok)
}

func TestSession_SelectRejectsUnknownNode(t *testing.T) {
	d := newDefense(t, newFakeRemote(domain.MapTypeStandard), baseOptions("plan-1"))

	var notFound *planning.NotFoundError
	require.ErrorAs(t, d.Select(51), &notFound)
	_, ok := d.Selected()
	assert.False(t, ok)
}

func TestSession_UnknownChampionGetsStubSummary(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 1, "mystery", "p1"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	rec, ok := d.Record(1)
	require.True(t, ok)
	require.NotNil(t, rec.Champion)
	assert.Equal(t, "mystery", rec.Champion.Name)
	require.NotNil(t, rec.Player)
	assert.Equal(t, "p1", rec.Player.ID)
}
