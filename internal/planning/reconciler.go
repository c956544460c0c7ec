package planning

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Poller runs tick on a fixed interval. A tick is dropped while the view is
// hidden or while the previous tick is still running.
type Poller struct {
	interval time.Duration
	visible  func() bool
	tick     func(ctx context.Context)

	inFlight atomic.Bool
	nudge    chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newPoller(interval time.Duration, visible func() bool, tick func(ctx context.Context)) *Poller {
	return &Poller{
		interval: interval,
		visible:  visible,
		tick:     tick,
		nudge:    make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Start launches the ticker goroutine.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.fire(ctx)
		case <-p.nudge:
			p.fire(ctx)
		}
	}
}

// fire starts one tick unless hidden or already running.
func (p *Poller) fire(ctx context.Context) bool {
	if p.visible != nil && !p.visible() {
		return false
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)
		p.tick(ctx)
	}()
	return true
}

// Nudge requests an immediate tick. Multiple nudges before the loop picks
// one up collapse into one.
func (p *Poller) Nudge() {
	select {
	case p.nudge <- struct{}{}:
	default:
	}
}

// Stop ends the loop and waits for a running tick.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.wg.Wait()
}

// tick is one poll; failures are logged and the next tick tries again.
func (s *Session) tick(ctx context.Context) {
	if _, err := s.Poll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("poll tick failed")
	}
}

// Poll fetches the authoritative list and merges it, keeping the local
// version of every pending node. It reports whether local state changed.
func (s *Session) Poll(ctx context.Context) (bool, error) {
	s.mu.Lock()
	scopeID, bg, gen := s.scopeID, s.battlegroup, s.generation
	s.mu.Unlock()

	fetched, err := s.remote.FetchAll(ctx, scopeID, bg)
	if err != nil {
		return false, asNetworkError("fetch records", err)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false, nil
	}
	changed := s.store.Merge(fetched, s.pending)
	s.pruneStatesLocked()
	s.mu.Unlock()

	if changed {
		s.emitChange()
	}
	return changed, nil
}

// Refresh is Poll with the error surfaced to the view.
func (s *Session) Refresh(ctx context.Context) error {
	if _, err := s.Poll(ctx); err != nil {
		s.surface(err)
		return err
	}
	return nil
}

// pruneStatesLocked forgets settled states for records no longer held.
func (s *Session) pruneStatesLocked() {
	for id, st := range s.states {
		if st.Status == SyncPending {
			continue
		}
		if s.store.indexByID(id) < 0 {
			delete(s.states, id)
		}
	}
}

// Merge adopts fetched records except on pending nodes, where the local
// record wins. Local records on pending nodes the server does not know
// about yet are kept. It returns false and leaves the list untouched when
// nothing differs.
func (s *Store) Merge(fetched []Record, pending *PendingSet) bool {
	merged := make([]Record, 0, len(fetched))
	seen := make(map[int]bool, len(fetched))

	for _, f := range fetched {
		f = f.clone()
		if f.NodeNumber == 0 {
			if n, ok := s.nodesByID[f.NodeID]; ok {
				f.NodeNumber = n.Number
			}
		}
		if seen[f.NodeNumber] {
			continue
		}
		seen[f.NodeNumber] = true
		if pending.Has(f.NodeNumber) {
			if i := s.indexByNode(f.NodeNumber); i >= 0 {
				merged = append(merged, s.records[i].clone())
				continue
			}
		}
		merged = append(merged, s.enrich(f))
	}
	for _, r := range s.records {
		if pending.Has(r.NodeNumber) && !seen[r.NodeNumber] {
			merged = append(merged, r.clone())
		}
	}

	before := fingerprint(s.records)
	prev := s.records
	s.records = merged
	s.sort()
	if fingerprint(s.records) == before {
		s.records = prev
		return false
	}
	return true
}
