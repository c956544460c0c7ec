package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/war-planner/internal/domain"
	ws "github.com/dom/war-planner/internal/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanNudger chan struct{}

func (c chanNudger) Nudge() {
	select {
	case c <- struct{}{}:
	default:
	}
}

func newHubAPI(t *testing.T) (*ws.Hub, *Client) {
	t.Helper()
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := ws.NewClient(hub, conn, uuid.New())
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, New(srv.URL)
}

func expectNudge(t *testing.T, n chanNudger) {
	t.Helper()
	select {
	case <-n:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a nudge")
	}
}

func expectNoNudge(t *testing.T, n chanNudger) {
	t.Helper()
	select {
	case <-n:
		t.Fatal("unexpected nudge")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestSubscription_NudgesOnScopeChange(t *testing.T) {
	hub, c := newHubAPI(t)
	war := uuid.New()
	scope := domain.WarScope(war, 1)
	nudges := make(chanNudger, 4)

	sub, err := c.Subscribe(context.Background(), scope, nudges)
	require.NoError(t, err)
	defer sub.Close()
	assert.Equal(t, scope, sub.Scope())

	hub.Publish(context.Background(), scope)
	expectNudge(t, nudges)
	assert.Eventually(t, func() bool { return sub.Revision() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(context.Background(), domain.WarScope(war, 2))
	expectNoNudge(t, nudges)

	// Moving to battlegroup 2 drops battlegroup 1 notifications.
	require.NoError(t, sub.Switch(context.Background(), domain.WarScope(war, 2)))
	hub.Publish(context.Background(), scope)
	expectNoNudge(t, nudges)
	hub.Publish(context.Background(), domain.WarScope(war, 2))
	expectNudge(t, nudges)
	assert.Equal(t, 1, hub.SubscriberCount(domain.WarScope(war, 2)))
	assert.Equal(t, 0, hub.SubscriberCount(scope))
}

func TestSubscription_RejectsBadScope(t *testing.T) {
	_, c := newHubAPI(t)
	_, err := c.Subscribe(context.Background(), "war:nope", make(chanNudger, 1))
	assert.Error(t, err)
}

func TestSubscription_StopsWithContext(t *testing.T) {
	hub, c := newHubAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := c.Subscribe(ctx, domain.SeasonScope(uuid.New()), make(chanNudger, 1))
	require.NoError(t, err)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
	assert.NoError(t, sub.Err())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
