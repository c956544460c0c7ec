package planning

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_DropsOverlappingTicks(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	p := newPoller(time.Hour, nil, func(context.Context) {
		calls.Add(1)
		<-release
	})
	ctx := context.Background()

	assert.True(t, p.fire(ctx))
	assert.False(t, p.fire(ctx))

	close(release)
	p.Stop()
	assert.Equal(t, int32(1), calls.Load())

	assert.True(t, p.fire(ctx))
	p.wg.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestPoller_SkipsWhileHidden(t *testing.T) {
	var calls atomic.Int32
	p := newPoller(time.Hour, func() bool { return false }, func(context.Context) { calls.Add(1) })

	assert.False(t, p.fire(context.Background()))
	p.Stop()
	assert.Zero(t, calls.Load())
}

func TestPoller_NudgesCollapse(t *testing.T) {
	p := newPoller(time.Hour, nil, func(context.Context) {})
	p.Nudge()
	p.Nudge()
	assert.Len(t, p.nudge, 1)
	p.Stop()
}

func TestPendingSet_CountsOverlappingSaves(t *testing.T) {
	p := NewPendingSet()
	p.Add(3)
	p.Add(3)
	p.Add(1)
	assert.Equal(t, []int{1, 3}, p.Nodes())

	p.Remove(3)
	assert.True(t, p.Has(3))
	p.Remove(3)
	assert.False(t, p.Has(3))
	assert.Equal(t, 1, p.Len())
}
