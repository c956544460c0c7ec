// Package redis keeps per-scope revision counters and fans change events
// out to every server instance.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const changesChannel = "planner:changes"

func revisionKey(scope string) string { return "planner:rev:" + scope }

// Change announces that the records of a scope were modified.
type Change struct {
	Scope    string `json:"scope"`
	Revision int64  `json:"revision"`
}

// ChangeFeed wraps the Redis client for revision and pub/sub operations.
type ChangeFeed struct {
	rdb *redis.Client
}

// NewChangeFeed connects to Redis from a connection URL.
func NewChangeFeed(redisURL string) (*ChangeFeed, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &ChangeFeed{rdb: rdb}, nil
}

// NewChangeFeedFromClient wraps an existing client, e.g. in tests.
func NewChangeFeedFromClient(rdb *redis.Client) *ChangeFeed {
	return &ChangeFeed{rdb: rdb}
}

func (f *ChangeFeed) Close() error {
	return f.rdb.Close()
}

// Bump increments the scope revision and publishes the change.
func (f *ChangeFeed) Bump(ctx context.Context, scope string) (int64, error) {
	rev, err := f.rdb.Incr(ctx, revisionKey(scope)).Result()
	if err != nil {
		return 0, fmt.Errorf("bump revision: %w", err)
	}
	payload, err := json.Marshal(Change{Scope: scope, Revision: rev})
	if err != nil {
		return 0, err
	}
	if err := f.rdb.Publish(ctx, changesChannel, payload).Err(); err != nil {
		return rev, fmt.Errorf("publish change: %w", err)
	}
	return rev, nil
}

// Publish bumps the scope and logs failures. Mutations have already been
// committed when it runs, so a lost notification only delays pollers.
func (f *ChangeFeed) Publish(ctx context.Context, scope string) {
	if _, err := f.Bump(ctx, scope); err != nil {
		log.Warn().Err(err).Str("scope", scope).Msg("change feed publish failed")
	}
}

// Revision returns the current revision of a scope, 0 if it never changed.
func (f *ChangeFeed) Revision(ctx context.Context, scope string) (int64, error) {
	rev, err := f.rdb.Get(ctx, revisionKey(scope)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get revision: %w", err)
	}
	return rev, nil
}

// Subscribe streams changes until ctx is cancelled. The returned channel
// is closed when the subscription ends.
func (f *ChangeFeed) Subscribe(ctx context.Context) (<-chan Change, error) {
	sub := f.rdb.Subscribe(ctx, changesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var c Change
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					log.Warn().Err(err).Str("payload", msg.Payload).Msg("dropping malformed change event")
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
