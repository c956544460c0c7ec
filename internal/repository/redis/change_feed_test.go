package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository/redis"
	"github.com/dom/war-planner/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeFeed_BumpAndRevision(t *testing.T) {
	feed := redis.NewChangeFeedFromClient(testutil.NewTestRedis(t))
	ctx := context.Background()
	scope := domain.PlanScope(uuid.New(), 1)

	rev, err := feed.Revision(ctx, scope)
	require.NoError(t, err)
	assert.Zero(t, rev)

	for want := int64(1); want <= 3; want++ {
		rev, err := feed.Bump(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, want, rev)
	}

	rev, err = feed.Revision(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rev)

	other, err := feed.Revision(ctx, domain.PlanScope(uuid.New(), 1))
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestChangeFeed_SubscribeReceivesPublishes(t *testing.T) {
	rdb := testutil.NewTestRedis(t)
	publisher := redis.NewChangeFeedFromClient(rdb)
	listener := redis.NewChangeFeedFromClient(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := listener.Subscribe(ctx)
	require.NoError(t, err)

	scope := domain.WarScope(uuid.New(), 2)
	publisher.Publish(ctx, scope)
	publisher.Publish(ctx, scope)

	for want := int64(1); want <= 2; want++ {
		select {
		case c := <-changes:
			assert.Equal(t, scope, c.Scope)
			assert.Equal(t, want, c.Revision)
		case <-time.After(5 * time.Second):
			t.Fatalf("no change %d received", want)
		}
	}

	cancel()
	select {
	case _, ok := <-changes:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("subscription did not close")
	}
}
