package planning

import "context"

// Remote is the authoritative store for one record kind (placements or
// fights), addressed by scope (plan or war id) and battlegroup.
type Remote interface {
	FetchAll(ctx context.Context, scopeID string, battlegroup int) ([]Record, error)
	FetchNodes(ctx context.Context, scopeID string) ([]NodeInfo, error)
	// Save upserts the full record and returns the confirmed version with
	// its server id.
	Save(ctx context.Context, rec Record) (Record, error)
}

// Catalog supplies the champion and player lists used to denormalise
// records for display.
type Catalog interface {
	FetchChampions(ctx context.Context) ([]ChampionSummary, error)
	FetchPlayers(ctx context.Context, battlegroup int) ([]PlayerSummary, error)
	FetchRoster(ctx context.Context, playerID string) ([]RosterChampion, error)
}

// ExtrasRemote manages staged extra champions of a war.
type ExtrasRemote interface {
	FetchExtras(ctx context.Context, warID string, battlegroup int) ([]Extra, error)
	AddExtra(ctx context.Context, extra Extra) (Extra, error)
	RemoveExtra(ctx context.Context, warID, extraID string) error
}

// BansRemote manages season and war ban lists. scopeID is the season id
// for SeasonBan and the war id for WarBan.
type BansRemote interface {
	FetchBans(ctx context.Context, kind BanKind, scopeID string) ([]Ban, error)
	AddBan(ctx context.Context, kind BanKind, scopeID, championID string) (Ban, error)
	RemoveBan(ctx context.Context, kind BanKind, scopeID, banID string) error
}
