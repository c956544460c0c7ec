package planning_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/rs/zerolog"
)

var errUnavailable = errors.New("remote unavailable")

// fakeRemote is an in-memory Remote whose saves can be held or failed.
type fakeRemote struct {
	mu      sync.Mutex
	records []planning.Record
	nodes   []planning.NodeInfo
	nextID  int

	nodesErr error
	fetchErr error
	// failSave decides per call (1-based) whether a save fails.
	failSave func(call int, rec planning.Record) error
	// gate, when set, holds every save until it is closed.
	gate chan struct{}

	saves   []planning.Record
	fetches atomic.Int32
}

func newFakeRemote(mapType domain.MapType) *fakeRemote {
	r := &fakeRemote{}
	count := 50
	if mapType == domain.MapTypeBigThing {
		count = 10
	}
	for n := 1; n <= count; n++ {
		r.nodes = append(r.nodes, planning.NodeInfo{
			ID:     fmt.Sprintf("node-%d", n),
			Number: n,
			Allocations: []domain.NodeAllocation{
				{Name: fmt.Sprintf("Boost %d", n), Tier: 1},
			},
		})
	}
	return r
}

func (r *fakeRemote) FetchAll(ctx context.Context, scopeID string, battlegroup int) ([]planning.Record, error) {
	r.fetches.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	var out []planning.Record
	for _, rec := range r.records {
		if rec.ScopeID == scopeID && rec.Battlegroup == battlegroup {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRemote) FetchNodes(ctx context.Context, scopeID string) ([]planning.NodeInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nodesErr != nil {
		return nil, r.nodesErr
	}
	return append([]planning.NodeInfo(nil), r.nodes...), nil
}

func (r *fakeRemote) Save(ctx context.Context, rec planning.Record) (planning.Record, error) {
	r.mu.Lock()
	gate := r.gate
	r.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return planning.Record{}, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, rec)
	if r.failSave != nil {
		if err := r.failSave(len(r.saves), rec); err != nil {
			return planning.Record{}, err
		}
	}

	rec.Node = planning.NodeInfo{}
	rec.Champion, rec.Defender, rec.Player = nil, nil, nil
	for i, existing := range r.records {
		if existing.ScopeID == rec.ScopeID && existing.Battlegroup == rec.Battlegroup && existing.NodeNumber == rec.NodeNumber {
			rec.ID = existing.ID
			r.records[i] = rec
			return rec, nil
		}
	}
	if rec.ID == "" || strings.HasPrefix(rec.ID, "temp-") {
		r.nextID++
		rec.ID = fmt.Sprintf("srv-%d", r.nextID)
	}
	r.records = append(r.records, rec)
	return rec, nil
}

// seed stores a record as if another client had saved it.
func (r *fakeRemote) seed(recs ...planning.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		replaced := false
		for i, existing := range r.records {
			if existing.ScopeID == rec.ScopeID && existing.Battlegroup == rec.Battlegroup && existing.NodeNumber == rec.NodeNumber {
				r.records[i] = rec
				replaced = true
			}
		}
		if !replaced {
			r.records = append(r.records, rec)
		}
	}
}

func (r *fakeRemote) hold() {
	r.mu.Lock()
	r.gate = make(chan struct{})
	r.mu.Unlock()
}

func (r *fakeRemote) release() {
	r.mu.Lock()
	close(r.gate)
	r.gate = nil
	r.mu.Unlock()
}

func (r *fakeRemote) setFailSave(fn func(call int, rec planning.Record) error) {
	r.mu.Lock()
	r.failSave = fn
	r.mu.Unlock()
}

func (r *fakeRemote) savedRecords() []planning.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]planning.Record(nil), r.saves...)
}

// fakeCatalog serves fixed champions, players and rosters.
type fakeCatalog struct {
	champions []planning.ChampionSummary
	players   []planning.PlayerSummary
	rosters   map[string][]planning.RosterChampion
}

func (c *fakeCatalog) FetchChampions(ctx context.Context) ([]planning.ChampionSummary, error) {
	return c.champions, nil
}

func (c *fakeCatalog) FetchPlayers(ctx context.Context, battlegroup int) ([]planning.PlayerSummary, error) {
	return c.players, nil
}

func (c *fakeCatalog) FetchRoster(ctx context.Context, playerID string) ([]planning.RosterChampion, error) {
	return c.rosters[playerID], nil
}

// fakeExtras is an in-memory ExtrasRemote.
type fakeExtras struct {
	mu      sync.Mutex
	extras  []planning.Extra
	nextID  int
	removed []string
	addErr  error
}

func (f *fakeExtras) FetchExtras(ctx context.Context, warID string, battlegroup int) ([]planning.Extra, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []planning.Extra
	for _, e := range f.extras {
		if e.WarID == warID && e.Battlegroup == battlegroup {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExtras) AddExtra(ctx context.Context, extra planning.Extra) (planning.Extra, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return planning.Extra{}, f.addErr
	}
	f.nextID++
	extra.ID = fmt.Sprintf("extra-%d", f.nextID)
	f.extras = append(f.extras, extra)
	return extra, nil
}

func (f *fakeExtras) RemoveExtra(ctx context.Context, warID, extraID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, extraID)
	for i, e := range f.extras {
		if e.ID == extraID {
			f.extras = append(f.extras[:i], f.extras[i+1:]...)
			break
		}
	}
	return nil
}

// fakeBans is an in-memory BansRemote.
type fakeBans struct {
	mu     sync.Mutex
	bans   map[string][]planning.Ban
	nextID int
	addErr error
}

func banKey(kind planning.BanKind, scopeID string) string {
	return kind.String() + ":" + scopeID
}

func (f *fakeBans) FetchBans(ctx context.Context, kind planning.BanKind, scopeID string) ([]planning.Ban, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]planning.Ban(nil), f.bans[banKey(kind, scopeID)]...), nil
}

func (f *fakeBans) AddBan(ctx context.Context, kind planning.BanKind, scopeID, championID string) (planning.Ban, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return planning.Ban{}, f.addErr
	}
	if f.bans == nil {
		f.bans = make(map[string][]planning.Ban)
	}
	f.nextID++
	ban := planning.Ban{ID: fmt.Sprintf("ban-%d", f.nextID), ChampionID: championID}
	f.bans[banKey(kind, scopeID)] = append(f.bans[banKey(kind, scopeID)], ban)
	return ban, nil
}

func (f *fakeBans) RemoveBan(ctx context.Context, kind planning.BanKind, scopeID, banID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := banKey(kind, scopeID)
	for i, b := range f.bans[key] {
		if b.ID == banID {
			f.bans[key] = append(f.bans[key][:i], f.bans[key][i+1:]...)
			return nil
		}
	}
	return errors.New("ban not found")
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func quietLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fixedClock returns the same instant so temp ids have to be bumped.
func fixedClock() func() time.Time {
	at := time.UnixMilli(1_000)
	return func() time.Time { return at }
}

func baseOptions(scopeID string) planning.Options {
	return planning.Options{
		MapType:      domain.MapTypeStandard,
		ScopeID:      scopeID,
		Battlegroup:  1,
		PollInterval: -1,
		Logger:       quietLogger(),
		Now:          fixedClock(),
	}
}

func placement(scopeID string, node int, championID, playerID string) planning.Record {
	rec := planning.Record{
		ID:          fmt.Sprintf("p-%d", node),
		ScopeID:     scopeID,
		Battlegroup: 1,
		NodeID:      fmt.Sprintf("node-%d", node),
		NodeNumber:  node,
	}
	if championID != "" {
		rec.ChampionID = strp(championID)
	}
	if playerID != "" {
		rec.PlayerID = strp(playerID)
	}
	return rec
}
