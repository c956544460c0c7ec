package planning_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_PendingNodeKeepsLocalVersion(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 3, "a", "p1"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	remote.hold()
	require.NoError(t, d.AssignDefender(3, "p1", "b", nil))

	// Another officer changes node 3 and fills node 5 meanwhile.
	remote.seed(placement("plan-1", 3, "c", "p2"), placement("plan-1", 5, "d", "p3"))

	changed, err := d.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	rec, ok := d.Record(3)
	require.True(t, ok)
	assert.Equal(t, "b", *rec.ChampionID)
	assert.Equal(t, "p1", *rec.PlayerID)

	adopted, ok := d.Record(5)
	require.True(t, ok)
	assert.Equal(t, "d", *adopted.ChampionID)

	remote.release()
	d.Wait()
}

func TestPoll_KeepsPendingRecordUnknownToServer(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	d := newDefense(t, remote, baseOptions("plan-1"))

	remote.hold()
	require.NoError(t, d.AssignPlayer(8, "p1"))

	_, err := d.Poll(context.Background())
	require.NoError(t, err)
	rec, ok := d.Record(8)
	require.True(t, ok)
	assert.Equal(t, "temp-1000", rec.ID)

	remote.release()
	d.Wait()
}

func TestPoll_UnchangedDataIsNotCommitted(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 1, "a", "p1"), placement("plan-1", 2, "b", "p2"))

	var changes atomic.Int32
	opts := baseOptions("plan-1")
	opts.OnChange = func([]planning.Record) { changes.Add(1) }
	d := newDefense(t, remote, opts)

	before := changes.Load()
	for range 3 {
		changed, err := d.Poll(context.Background())
		require.NoError(t, err)
		assert.False(t, changed)
	}
	assert.Equal(t, before, changes.Load())
	assert.Len(t, d.Records(), 2)
}

func TestPoll_FetchErrorLeavesStateAlone(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.seed(placement("plan-1", 1, "a", "p1"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	remote.mu.Lock()
	remote.fetchErr = errUnavailable
	remote.mu.Unlock()

	changed, err := d.Poll(context.Background())
	var netErr *planning.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.False(t, changed)
	assert.Len(t, d.Records(), 1)
}

func TestPoller_TicksWhileVisible(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	var visible atomic.Bool
	opts := baseOptions("plan-1")
	opts.PollInterval = 10 * time.Millisecond
	opts.Visible = visible.Load
	d := newDefense(t, remote, opts)

	d.Start()
	base := remote.fetches.Load()
	assert.Never(t, func() bool { return remote.fetches.Load() > base }, 80*time.Millisecond, 10*time.Millisecond)

	visible.Store(true)
	remote.seed(placement("plan-1", 4, "a", "p1"))
	assert.Eventually(t, func() bool {
		_, ok := d.Record(4)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestPoller_NudgeTicksImmediately(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	opts := baseOptions("plan-1")
	opts.PollInterval = time.Hour
	d := newDefense(t, remote, opts)
	d.Start()

	remote.seed(placement("plan-1", 9, "a", "p1"))
	d.Nudge()
	assert.Eventually(t, func() bool {
		_, ok := d.Record(9)
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestLoad_NodeFailureFallsBackToStubs(t *testing.T) {
	remote := newFakeRemote(domain.MapTypeStandard)
	remote.nodesErr = errUnavailable
	remote.seed(placement("plan-1", 1, "a", "p1"))
	d := newDefense(t, remote, baseOptions("plan-1"))

	nodes := d.Nodes()
	require.Len(t, nodes, 50)
	assert.Empty(t, nodes[0].ID)
	assert.Empty(t, nodes[0].Allocations)

	rec, ok := d.Record(1)
	require.True(t, ok)
	assert.NotNil(t, rec.Node.Allocations)
}
