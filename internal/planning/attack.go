package planning

import (
	"context"
	"slices"
	"strconv"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/patch"
)

// WarPlanner is the attack flow over a Session: fights, staged extras and
// ban lists of one war.
type WarPlanner struct {
	*Session
	extrasRemote ExtrasRemote
	bansRemote   BansRemote
	seasonID     string
	warBanLimit  int

	extras     []Extra
	seasonBans []Ban
	warBans    []Ban
}

// WarOptions adds the war-level collaborators to Options.
type WarOptions struct {
	Options
	SeasonID    string
	WarBanLimit int
	Extras      ExtrasRemote
	Bans        BansRemote
}

// NewWarPlanner creates an attack session; opts.Mode is forced to
// ModeAttack.
func NewWarPlanner(remote Remote, catalog Catalog, opts WarOptions) (*WarPlanner, error) {
	opts.Mode = ModeAttack
	s, err := NewSession(remote, catalog, opts.Options)
	if err != nil {
		return nil, err
	}
	limit := opts.WarBanLimit
	if limit <= 0 {
		limit = domain.DefaultWarBanLimit
	}
	return &WarPlanner{
		Session:      s,
		extrasRemote: opts.Extras,
		bansRemote:   opts.Bans,
		seasonID:     opts.SeasonID,
		warBanLimit:  limit,
	}, nil
}

// Load fetches fights plus extras and both ban lists.
func (w *WarPlanner) Load(ctx context.Context) error {
	if err := w.Session.Load(ctx); err != nil {
		return err
	}
	return w.LoadAuxiliary(ctx)
}

// LoadAuxiliary refreshes extras and bans only.
func (w *WarPlanner) LoadAuxiliary(ctx context.Context) error {
	warID, bg := w.Scope()

	var (
		extras     []Extra
		seasonBans []Ban
		warBans    []Ban
		err        error
	)
	if w.extrasRemote != nil {
		if extras, err = w.extrasRemote.FetchExtras(ctx, warID, bg); err != nil {
			return w.fail(asNetworkError("fetch extras", err))
		}
	}
	if w.bansRemote != nil {
		if w.seasonID != "" {
			if seasonBans, err = w.bansRemote.FetchBans(ctx, SeasonBan, w.seasonID); err != nil {
				return w.fail(asNetworkError("fetch season bans", err))
			}
		}
		if warBans, err = w.bansRemote.FetchBans(ctx, WarBan, warID); err != nil {
			return w.fail(asNetworkError("fetch war bans", err))
		}
	}

	w.mu.Lock()
	w.extras = extras
	w.seasonBans = seasonBans
	w.warBans = warBans
	w.mu.Unlock()
	return nil
}

func (w *WarPlanner) fail(err error) error {
	w.surface(err)
	return err
}

// Extras returns the staged extras of the battlegroup.
func (w *WarPlanner) Extras() []Extra {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Extra(nil), w.extras...)
}

// Bans returns a copy of a ban list.
func (w *WarPlanner) Bans(kind BanKind) []Ban {
	w.mu.Lock()
	defer w.mu.Unlock()
	if kind == WarBan {
		return append([]Ban(nil), w.warBans...)
	}
	return append([]Ban(nil), w.seasonBans...)
}

func banIDs(bans []Ban) []string {
	out := make([]string, len(bans))
	for i, b := range bans {
		out[i] = b.ChampionID
	}
	return out
}

// Validate checks an attacker assignment for a player on a node.
func (w *WarPlanner) Validate(playerID, championID string, nodeNumber int) ValidationResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateLocked(playerID, championID, nodeNumber)
}

func (w *WarPlanner) validateLocked(playerID, championID string, nodeNumber int) ValidationResult {
	return Validate(ValidationInput{
		Mode:       ModeAttack,
		MapType:    w.opts.MapType,
		PlayerID:   playerID,
		ChampionID: championID,
		NodeNumber: nodeNumber,
		SeasonBans: banIDs(w.seasonBans),
		WarBans:    banIDs(w.warBans),
		Records:    w.store.records,
		Extras:     w.extras,
	})
}

// AssignAttacker puts a player's champion on a node. A matching staged
// extra is removed once the assignment is applied.
func (w *WarPlanner) AssignAttacker(ctx context.Context, nodeNumber int, playerID, championID string) error {
	if res := w.Validate(playerID, championID, nodeNumber); !res.IsValid {
		return res.Err()
	}
	return w.save(ctx, Mutation{
		NodeNumber: nodeNumber,
		ChampionID: patch.Set(championID),
		PlayerID:   patch.Set(playerID),
	})
}

// RemoveAttacker clears the attacker of a node and keeps its player.
func (w *WarPlanner) RemoveAttacker(ctx context.Context, nodeNumber int) error {
	return w.save(ctx, Mutation{NodeNumber: nodeNumber, ChampionID: patch.Null[string]()})
}

// SetDefender records the opposing defender seen on a node.
func (w *WarPlanner) SetDefender(ctx context.Context, nodeNumber int, championID *string) error {
	return w.save(ctx, Mutation{NodeNumber: nodeNumber, DefenderID: patch.FromPtr(championID)})
}

// SetDeath records the death count of a fight; nil clears it.
func (w *WarPlanner) SetDeath(ctx context.Context, nodeNumber int, death *int) error {
	return w.save(ctx, Mutation{NodeNumber: nodeNumber, Death: patch.FromPtr(death)})
}

func (w *WarPlanner) SetNotes(ctx context.Context, nodeNumber int, notes string) error {
	return w.save(ctx, Mutation{NodeNumber: nodeNumber, Notes: patch.Set(notes)})
}

// SetPrefights replaces the prefight list of a node. Each prefight
// champion is validated for its player.
func (w *WarPlanner) SetPrefights(ctx context.Context, nodeNumber int, prefights []Prefight) error {
	w.mu.Lock()
	for _, p := range prefights {
		if res := w.validateLocked(p.PlayerID, p.ChampionID, nodeNumber); !res.IsValid {
			w.mu.Unlock()
			return res.Err()
		}
	}
	w.mu.Unlock()
	return w.save(ctx, Mutation{NodeNumber: nodeNumber, Prefights: patch.Set(prefights)})
}

// save routes an attack mutation through the engine and promotes a
// matching extra into the assignment.
func (w *WarPlanner) save(ctx context.Context, m Mutation) error {
	if err := w.Session.Save(m); err != nil {
		return err
	}
	playerID, hasPlayer := m.PlayerID.Value()
	championID, hasChampion := m.ChampionID.Value()
	if !hasPlayer || !hasChampion {
		return nil
	}

	w.mu.Lock()
	var match *Extra
	for i := range w.extras {
		e := w.extras[i]
		if e.PlayerID == playerID && e.ChampionID == championID && e.Battlegroup == w.battlegroup {
			match = &e
			break
		}
	}
	w.mu.Unlock()
	if match == nil {
		return nil
	}
	return w.RemoveExtra(ctx, match.ID)
}

// AddExtra stages a champion for a player. The entry is shown at once
// with a temporary id and swapped for the server id on success.
func (w *WarPlanner) AddExtra(ctx context.Context, playerID, championID string) (Extra, error) {
	if w.extrasRemote == nil {
		return Extra{}, &NotFoundError{What: "extras store"}
	}

	w.mu.Lock()
	if res := w.validateLocked(playerID, championID, 0); !res.IsValid {
		w.mu.Unlock()
		return Extra{}, res.Err()
	}
	extra := Extra{
		ID:          w.newTempIDLocked(),
		WarID:       w.scopeID,
		PlayerID:    playerID,
		ChampionID:  championID,
		Battlegroup: w.battlegroup,
	}
	tempID := extra.ID
	w.extras = append(w.extras, extra)
	w.mu.Unlock()

	saved, err := w.extrasRemote.AddExtra(ctx, extra)
	w.mu.Lock()
	i := slices.IndexFunc(w.extras, func(e Extra) bool { return e.ID == tempID })
	if err != nil {
		if i >= 0 {
			w.extras = slices.Delete(w.extras, i, i+1)
		}
		w.mu.Unlock()
		return Extra{}, w.fail(asNetworkError("add extra", err))
	}
	if i >= 0 && saved.ID != "" {
		w.extras[i].ID = saved.ID
		extra.ID = saved.ID
	}
	w.mu.Unlock()
	return extra, nil
}

// RemoveExtra drops a staged extra, restoring it if the server refuses.
func (w *WarPlanner) RemoveExtra(ctx context.Context, extraID string) error {
	if w.extrasRemote == nil {
		return &NotFoundError{What: "extras store"}
	}

	w.mu.Lock()
	i := slices.IndexFunc(w.extras, func(e Extra) bool { return e.ID == extraID })
	if i < 0 {
		w.mu.Unlock()
		return &NotFoundError{What: "extra", ID: extraID}
	}
	removed := w.extras[i]
	w.extras = slices.Delete(w.extras, i, i+1)
	warID := w.scopeID
	w.mu.Unlock()

	if err := w.extrasRemote.RemoveExtra(ctx, warID, extraID); err != nil {
		w.mu.Lock()
		w.extras = append(w.extras, removed)
		w.mu.Unlock()
		return w.fail(asNetworkError("remove extra", err))
	}
	return nil
}

// AddBan bans a champion. War bans are capped at the war ban limit.
func (w *WarPlanner) AddBan(ctx context.Context, kind BanKind, championID string) (Ban, error) {
	if w.bansRemote == nil {
		return Ban{}, &NotFoundError{What: "ban store"}
	}

	w.mu.Lock()
	list := w.banListLocked(kind)
	if slices.Contains(banIDs(*list), championID) {
		w.mu.Unlock()
		return Ban{}, &ValidationError{Message: "This champion is already banned."}
	}
	if kind == WarBan && len(*list) >= w.warBanLimit {
		w.mu.Unlock()
		return Ban{}, &ValidationError{Message: "A war can have at most " + strconv.Itoa(w.warBanLimit) + " bans."}
	}
	ban := Ban{ID: w.newTempIDLocked(), ChampionID: championID}
	tempID := ban.ID
	*list = append(*list, ban)
	scopeID := w.banScopeLocked(kind)
	w.mu.Unlock()

	saved, err := w.bansRemote.AddBan(ctx, kind, scopeID, championID)

	w.mu.Lock()
	list = w.banListLocked(kind)
	i := slices.IndexFunc(*list, func(b Ban) bool { return b.ID == tempID })
	if err != nil {
		if i >= 0 {
			*list = slices.Delete(*list, i, i+1)
		}
		w.mu.Unlock()
		return Ban{}, w.fail(asNetworkError("add "+kind.String()+" ban", err))
	}
	if i >= 0 && saved.ID != "" {
		(*list)[i].ID = saved.ID
		ban.ID = saved.ID
	}
	w.mu.Unlock()
	return ban, nil
}

// RemoveBan lifts a ban, restoring it if the server refuses.
func (w *WarPlanner) RemoveBan(ctx context.Context, kind BanKind, banID string) error {
	if w.bansRemote == nil {
		return &NotFoundError{What: "ban store"}
	}

	w.mu.Lock()
	list := w.banListLocked(kind)
	i := slices.IndexFunc(*list, func(b Ban) bool { return b.ID == banID })
	if i < 0 {
		w.mu.Unlock()
		return &NotFoundError{What: kind.String() + " ban", ID: banID}
	}
	removed := (*list)[i]
	*list = slices.Delete(*list, i, i+1)
	scopeID := w.banScopeLocked(kind)
	w.mu.Unlock()

	if err := w.bansRemote.RemoveBan(ctx, kind, scopeID, banID); err != nil {
		w.mu.Lock()
		list = w.banListLocked(kind)
		*list = append(*list, removed)
		w.mu.Unlock()
		return w.fail(asNetworkError("remove "+kind.String()+" ban", err))
	}
	return nil
}

func (w *WarPlanner) banListLocked(kind BanKind) *[]Ban {
	if kind == WarBan {
		return &w.warBans
	}
	return &w.seasonBans
}

func (w *WarPlanner) banScopeLocked(kind BanKind) string {
	if kind == WarBan {
		return w.scopeID
	}
	return w.seasonID
}

// SetScope switches war or battlegroup and reloads extras and bans.
func (w *WarPlanner) SetScope(ctx context.Context, warID string, battlegroup int) error {
	w.mu.Lock()
	w.extras = nil
	w.warBans = nil
	w.mu.Unlock()
	if err := w.Session.SetScope(ctx, warID, battlegroup); err != nil {
		return err
	}
	return w.LoadAuxiliary(ctx)
}
