package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dom/war-planner/internal/domain"
	ws "github.com/dom/war-planner/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	subscribeTimeout = 10 * time.Second
	writeWait        = 10 * time.Second
)

// Nudger is told to re-fetch when its scope changes on the server.
// *planning.Session satisfies it.
type Nudger interface {
	Nudge()
}

// Subscription holds a change-notification socket for one scope. Each
// SCOPE_CHANGED for the current scope nudges the target; the planning
// poller still runs, so a dropped socket only delays updates.
type Subscription struct {
	conn   *websocket.Conn
	target Nudger
	log    zerolog.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	scope    string
	revision int64
	acks     chan ackResult

	done chan struct{}
	err  error
}

type ackResult struct {
	scope string
	err   error
}

// WebSocketURL derives the socket URL from the API base.
func (c *Client) WebSocketURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if token := c.Token(); token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Subscribe dials the server, subscribes to scope and nudges target on
// every change until ctx is cancelled or Close is called.
func (c *Client) Subscribe(ctx context.Context, scope string, target Nudger) (*Subscription, error) {
	if !domain.IsScope(scope) {
		return nil, fmt.Errorf("invalid scope %q", scope)
	}
	wsURL, err := c.WebSocketURL()
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", strings.SplitN(wsURL, "?", 2)[0], err)
	}

	s := &Subscription{
		conn:   conn,
		target: target,
		log:    c.log.With().Str("scope", scope).Logger(),
		acks:   make(chan ackResult, 1),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	if err := s.Switch(ctx, scope); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Scope returns the subscribed scope.
func (s *Subscription) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Revision is the last revision seen for the current scope.
func (s *Subscription) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Switch moves the subscription to another scope, e.g. after the session
// changes battlegroup. It waits for the server to acknowledge.
func (s *Subscription) Switch(ctx context.Context, scope string) error {
	if !domain.IsScope(scope) {
		return fmt.Errorf("invalid scope %q", scope)
	}
	s.mu.Lock()
	old := s.scope
	s.mu.Unlock()
	if old == scope {
		return nil
	}
	if old != "" {
		if err := s.send(ws.MessageTypeUnsubscribe, ws.ScopePayload{Scope: old}); err != nil {
			return err
		}
	}
	if err := s.send(ws.MessageTypeSubscribe, ws.ScopePayload{Scope: scope}); err != nil {
		return err
	}

	timer := time.NewTimer(subscribeTimeout)
	defer timer.Stop()
	for {
		select {
		case ack := <-s.acks:
			if ack.err != nil {
				return ack.err
			}
			if ack.scope != scope {
				continue
			}
			s.mu.Lock()
			s.scope = scope
			s.revision = 0
			s.mu.Unlock()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return errors.New("subscribe: no acknowledgement from server")
		case <-s.done:
			return s.Err()
		}
	}
}

// Done is closed when the socket stops.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err returns why the socket stopped, or nil after Close.
func (s *Subscription) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Close shuts the socket; safe to call more than once.
func (s *Subscription) Close() {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	s.writeMu.Unlock()
	_ = s.conn.Close()
	<-s.done
}

func (s *Subscription) send(t ws.MessageType, payload interface{}) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *Subscription) readLoop() {
	defer close(s.done)
	for {
		var msg ws.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !errors.Is(err, net.ErrClosed) {
				s.err = err
				s.log.Warn().Err(err).Msg("change socket closed")
			}
			return
		}
		s.handle(msg)
	}
}

func (s *Subscription) handle(msg ws.Message) {
	switch msg.Type {
	case ws.MessageTypeSubscribed:
		var p ws.ScopePayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			s.ack(ackResult{scope: p.Scope})
		}
	case ws.MessageTypeScopeChanged:
		var p ws.ScopeChangedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		s.mu.Lock()
		current := p.Scope == s.scope
		if current {
			s.revision = p.Revision
		}
		s.mu.Unlock()
		if current {
			s.log.Debug().Int64("revision", p.Revision).Msg("scope changed")
			s.target.Nudge()
		}
	case ws.MessageTypeError:
		var p ws.ErrorPayload
		_ = json.Unmarshal(msg.Payload, &p)
		s.ack(ackResult{err: fmt.Errorf("%s: %s", p.Code, p.Message)})
	}
}

// ack drops the result when nobody is waiting.
func (s *Subscription) ack(r ackResult) {
	select {
	case s.acks <- r:
	default:
	}
}
