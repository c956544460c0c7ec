// Package planning keeps a client-side copy of a war or defense plan in
// sync with the remote store. Edits are applied optimistically, saved in
// the background and reconciled by polling; nodes with a save in flight
// always keep their local version.
package planning

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/topology"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is how often the reconciler re-fetches.
const DefaultPollInterval = 5 * time.Second

// Recovery is what the engine does after a failed save.
type Recovery int

const (
	// RecoverRefetch re-fetches the whole list from the remote store.
	RecoverRefetch Recovery = iota
	// RecoverRollback restores the record as it was before the edit.
	RecoverRollback
)

// Options configures a Session.
type Options struct {
	Mode        Mode
	MapType     domain.MapType
	ScopeID     string
	Battlegroup int

	// PollInterval defaults to DefaultPollInterval; a negative value
	// disables polling.
	PollInterval time.Duration
	// Visible reports whether the view is in the foreground. Ticks are
	// skipped while it returns false.
	Visible func() bool
	// Recovery defaults to RecoverRefetch for defense and RecoverRollback
	// for attack.
	Recovery *Recovery

	OnChange func(records []Record)
	OnError  func(err error)

	Logger *zerolog.Logger
	Now    func() time.Time
}

// SyncStatus is the lifecycle of a record edit.
type SyncStatus int

const (
	SyncConfirmed SyncStatus = iota
	SyncPending
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncPending:
		return "pending"
	case SyncFailed:
		return "failed"
	}
	return "confirmed"
}

// SyncState tracks one record: Pending(TempID) moves to Confirmed(ServerID)
// or Failed.
type SyncState struct {
	Status   SyncStatus
	TempID   string
	ServerID string
}

// Session owns the store, pending set and poller of one mounted view.
type Session struct {
	remote  Remote
	catalog Catalog
	opts    Options
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	scopeID     string
	battlegroup int
	generation  int
	store       *Store
	pending     *PendingSet
	states      map[string]SyncState
	lastTempMS  int64
	selected    int
	lastErr     error
	loadCancel  context.CancelFunc

	inflight sync.WaitGroup
	poller   *Poller
}

// NewSession creates a session. catalog may be nil when display summaries
// are not needed.
func NewSession(remote Remote, catalog Catalog, opts Options) (*Session, error) {
	if !opts.MapType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMapType, opts.MapType)
	}
	if _, err := domain.ParseBattlegroup(opts.Battlegroup); err != nil {
		return nil, err
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Recovery == nil {
		r := RecoverRefetch
		if opts.Mode == ModeAttack {
			r = RecoverRollback
		}
		opts.Recovery = &r
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		remote:      remote,
		catalog:     catalog,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		scopeID:     opts.ScopeID,
		battlegroup: opts.Battlegroup,
		store:       NewStore(opts.MapType),
		pending:     NewPendingSet(),
		states:      make(map[string]SyncState),
	}
	s.log = logger.With().
		Str("component", "planning").
		Str("mode", opts.Mode.String()).
		Logger()
	return s, nil
}

// Load fetches nodes, catalogues and records for the current scope.
// A node fetch failure falls back to stub nodes; a record fetch failure
// is returned and leaves state unchanged.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loadCancel != nil {
		s.loadCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.loadCancel = cancel
	scopeID, bg, gen := s.scopeID, s.battlegroup, s.generation
	s.mu.Unlock()
	defer cancel()

	nodes, err := s.remote.FetchNodes(ctx, scopeID)
	if err != nil {
		s.log.Warn().Err(err).Str("scope", scopeID).Msg("node fetch failed, using stub nodes")
	}

	var (
		champions []ChampionSummary
		players   []PlayerSummary
	)
	if s.catalog != nil {
		if champions, err = s.catalog.FetchChampions(ctx); err != nil {
			s.log.Warn().Err(err).Msg("champion fetch failed")
		}
		if players, err = s.catalog.FetchPlayers(ctx, bg); err != nil {
			s.log.Warn().Err(err).Int("battlegroup", bg).Msg("player fetch failed")
		}
	}

	s.mu.Lock()
	if gen == s.generation {
		if nodes != nil {
			s.store.SetNodes(nodes)
		}
		if champions != nil {
			s.store.SetChampions(champions)
		}
		if players != nil {
			s.store.SetPlayers(players)
		}
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// LoadRoster caches a player's roster for star level lookups.
func (s *Session) LoadRoster(ctx context.Context, playerID string) error {
	if s.catalog == nil {
		return nil
	}
	roster, err := s.catalog.FetchRoster(ctx, playerID)
	if err != nil {
		return asNetworkError("fetch roster", err)
	}
	s.mu.Lock()
	s.store.SetRoster(playerID, roster)
	s.mu.Unlock()
	return nil
}

// Start begins polling. It is a no-op when polling is disabled or already
// running.
func (s *Session) Start() {
	if s.opts.PollInterval < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poller != nil {
		return
	}
	s.poller = newPoller(s.opts.PollInterval, s.opts.Visible, s.tick)
	s.poller.Start(s.ctx)
}

// Nudge asks the poller for an immediate tick, e.g. after a change
// notification. The pending-wins merge still applies.
func (s *Session) Nudge() {
	s.mu.Lock()
	p := s.poller
	s.mu.Unlock()
	if p != nil {
		p.Nudge()
	}
}

func (s *Session) stopPoller() {
	s.mu.Lock()
	p := s.poller
	s.poller = nil
	s.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

// SetScope switches to another plan/war or battlegroup. Polling and any
// running load are cancelled; results of saves from the old scope are
// ignored.
func (s *Session) SetScope(ctx context.Context, scopeID string, battlegroup int) error {
	if _, err := domain.ParseBattlegroup(battlegroup); err != nil {
		return err
	}
	s.stopPoller()

	s.mu.Lock()
	if s.loadCancel != nil {
		s.loadCancel()
		s.loadCancel = nil
	}
	s.generation++
	s.scopeID = scopeID
	s.battlegroup = battlegroup
	s.pending.Clear()
	s.states = make(map[string]SyncState)
	s.selected = 0
	s.store.Replace(nil)
	s.mu.Unlock()
	s.emitChange()

	err := s.Load(ctx)
	s.Start()
	return err
}

// Close stops polling and waits for in-flight saves to settle.
func (s *Session) Close() {
	s.stopPoller()
	s.mu.Lock()
	if s.loadCancel != nil {
		s.loadCancel()
	}
	s.mu.Unlock()
	s.inflight.Wait()
	s.cancel()
}

// Wait blocks until every background save has settled.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Scope returns the current scope id and battlegroup.
func (s *Session) Scope() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopeID, s.battlegroup
}

func (s *Session) Mode() Mode { return s.opts.Mode }
func (s *Session) MapType() domain.MapType { return s.opts.MapType }

// Records returns a copy of the current list ordered by node number.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Records()
}

// Record returns a copy of the record on a node.
func (s *Session) Record(nodeNumber int) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ByNode(nodeNumber)
}

// Nodes returns the assignable nodes of the map joined with server data.
func (s *Session) Nodes() []NodeInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Nodes()
}

// Pending returns the node numbers with a save in flight.
func (s *Session) Pending() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Nodes()
}

// IsPending reports whether a node has a save in flight.
func (s *Session) IsPending(nodeNumber int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Has(nodeNumber)
}

// SyncState reports the lifecycle state of a record id.
func (s *Session) SyncState(id string) SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok {
		return st
	}
	return SyncState{Status: SyncConfirmed, ServerID: id}
}

// LastError returns the most recent surfaced error.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// Select marks a node as the current selection.
func (s *Session) Select(nodeNumber int) error {
	if !topology.IsAssignable(s.opts.MapType, nodeNumber) {
		return &NotFoundError{What: "node", ID: strconv.Itoa(nodeNumber)}
	}
	s.mu.Lock()
	s.selected = nodeNumber
	s.mu.Unlock()
	return nil
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selected = 0
	s.mu.Unlock()
}

// Selected returns the selected node number.
func (s *Session) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != 0
}

// Navigate moves the selection; with nothing selected it does nothing.
func (s *Session) Navigate(d topology.Direction) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == 0 {
		return 0, false
	}
	next, ok := topology.Navigate(strconv.Itoa(s.selected), d, s.opts.MapType)
	if !ok {
		return s.selected, false
	}
	node, _ := topology.NodeByID(s.opts.MapType, next)
	s.selected = node.Number
	return s.selected, true
}

func (s *Session) newTempIDLocked() string {
	ms := s.opts.Now().UnixMilli()
	if ms <= s.lastTempMS {
		ms = s.lastTempMS + 1
	}
	s.lastTempMS = ms
	return fmt.Sprintf("temp-%d", ms)
}

// surface records err as the session error and reports it.
func (s *Session) surface(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}

func (s *Session) emitChange() {
	if s.opts.OnChange == nil {
		return
	}
	s.opts.OnChange(s.Records())
}

// withStore runs fn under the session lock.
func (s *Session) withStore(fn func(st *Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}
