package planning

import (
	"context"
	"strconv"
)

// saveOp is one optimistic edit between local apply and remote settle.
type saveOp struct {
	generation int
	node       int
	before     *Record
	record     Record
	tempID     string
}

// Save applies m locally and sends it to the remote store in the
// background. Errors from the remote store are surfaced through OnError
// and LastError; only local problems (unknown record or node) are
// returned.
func (s *Session) Save(m Mutation) error {
	op, err := s.begin(m)
	if err != nil {
		return err
	}
	s.emitChange()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		_ = s.commit(s.ctx, op)
	}()
	return nil
}

// SaveAndWait applies m locally and waits for the remote store.
func (s *Session) SaveAndWait(ctx context.Context, m Mutation) error {
	op, err := s.begin(m)
	if err != nil {
		return err
	}
	s.emitChange()
	return s.commit(ctx, op)
}

// begin locates the target, marks its node pending and applies m.
func (s *Session) begin(m Mutation) (*saveOp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Battlegroup == 0 {
		m.Battlegroup = s.battlegroup
	}
	if m.Battlegroup != s.battlegroup {
		return nil, &ValidationError{Message: "Mutation targets battlegroup " + strconv.Itoa(m.Battlegroup) +
			" but the view shows battlegroup " + strconv.Itoa(s.battlegroup) + "."}
	}

	op := &saveOp{generation: s.generation}
	var rec Record
	if i := s.store.locate(m); i >= 0 {
		before := s.store.records[i].clone()
		op.before = &before
		rec = before.clone()
	} else {
		number := s.store.resolveNumber(m)
		if number == 0 {
			return nil, &NotFoundError{What: "placement", ID: m.target()}
		}
		if !s.store.assignable(number) {
			return nil, &NotFoundError{What: "node", ID: strconv.Itoa(number)}
		}
		node := s.store.Node(number)
		op.tempID = s.newTempIDLocked()
		rec = Record{
			ID:          op.tempID,
			ScopeID:     s.scopeID,
			Battlegroup: s.battlegroup,
			NodeID:      m.NodeID,
			NodeNumber:  number,
		}
		if rec.NodeID == "" {
			rec.NodeID = node.ID
		}
	}

	op.node = rec.NodeNumber
	s.pending.Add(op.node)

	m.apply(&rec)
	rec.ScopeID = s.scopeID
	rec.Battlegroup = s.battlegroup
	s.store.put(rec)
	op.record, _ = s.store.ByNode(op.node)

	s.states[op.record.ID] = SyncState{Status: SyncPending, TempID: op.tempID}
	return op, nil
}

// commit sends the merged record and settles the pending mark.
func (s *Session) commit(ctx context.Context, op *saveOp) error {
	saved, err := s.remote.Save(ctx, op.record)

	s.mu.Lock()
	stale := op.generation != s.generation
	if !stale {
		s.pending.Remove(op.node)
	}

	if err != nil {
		err = asNetworkError("save "+s.opts.Mode.String()+" node "+strconv.Itoa(op.node), err)
		s.log.Warn().Err(err).
			Str("record", op.record.ID).
			Int("node", op.node).
			Msg("save failed")

		refetch := false
		if !stale {
			s.states[op.record.ID] = SyncState{Status: SyncFailed, TempID: op.tempID}
			switch *s.opts.Recovery {
			case RecoverRollback:
				s.rollbackLocked(op)
			default:
				refetch = true
			}
		}
		s.mu.Unlock()

		s.surface(err)
		if refetch {
			if rerr := s.Refresh(s.ctx); rerr != nil {
				s.log.Warn().Err(rerr).Msg("resync after failed save failed")
			}
		} else if !stale {
			s.emitChange()
		}
		return err
	}

	if stale {
		s.mu.Unlock()
		return nil
	}

	id := op.record.ID
	if saved.ID != "" && saved.ID != id {
		s.store.renameID(id, saved.ID)
		delete(s.states, id)
		id = saved.ID
	}
	s.states[id] = SyncState{Status: SyncConfirmed, TempID: op.tempID, ServerID: id}
	s.mu.Unlock()

	s.emitChange()
	return nil
}

// rollbackLocked restores the record from before the edit, or drops a
// record the edit created.
func (s *Session) rollbackLocked(op *saveOp) {
	if op.before != nil {
		s.store.put(*op.before)
		return
	}
	s.store.removeNode(op.node)
}
