package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dom/war-planner/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

// Hub tracks connected clients and the scopes they watch. Changes reach it
// either from the redis change feed (Consume) or in-process (Publish).
type Hub struct {
	clients    map[*Client]bool
	scopes     map[string]map[*Client]bool
	revisions  map[string]int64
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		scopes:     make(map[string]map[*Client]bool),
		revisions:  make(map[string]int64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.scopes = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.dropSubscriptionsLocked(client)
				client.Close()
			}
			h.mu.Unlock()
		}
	}
}

// Stop closes every client and blocks until Run has returned.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Subscribe(client *Client, scope string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.scopes[scope] == nil {
		h.scopes[scope] = make(map[*Client]bool)
	}
	h.scopes[scope][client] = true
}

func (h *Hub) Unsubscribe(client *Client, scope string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.scopes[scope]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.scopes, scope)
		}
	}
}

func (h *Hub) dropSubscriptionsLocked(client *Client) {
	for scope, subs := range h.scopes {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.scopes, scope)
		}
	}
}

// Publish notifies subscribers of scope directly. It is the in-process
// publisher used when no redis change feed is configured.
func (h *Hub) Publish(_ context.Context, scope string) {
	h.mu.Lock()
	h.revisions[scope]++
	rev := h.revisions[scope]
	h.mu.Unlock()

	h.Broadcast(scope, rev)
}

// Consume forwards change-feed events to subscribers until ctx ends or the
// feed closes.
func (h *Hub) Consume(ctx context.Context, changes <-chan redis.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			h.Broadcast(c.Scope, c.Revision)
		}
	}
}

// Broadcast sends SCOPE_CHANGED to every client subscribed to scope. Slow
// clients drop the event; their poller still catches up.
func (h *Hub) Broadcast(scope string, revision int64) {
	msg, err := NewMessage(MessageTypeScopeChanged, ScopeChangedPayload{Scope: scope, Revision: revision})
	if err != nil {
		log.Error().Err(err).Str("scope", scope).Msg("failed to build scope change")
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("scope", scope).Msg("failed to marshal scope change")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.scopes[scope] {
		if !client.trySend(data) {
			log.Warn().Str("playerId", client.playerID.String()).Str("scope", scope).Msg("dropping scope change, buffer full")
		}
	}
}

// SubscriberCount returns the number of clients watching scope.
func (h *Hub) SubscriberCount(scope string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scopes[scope])
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
