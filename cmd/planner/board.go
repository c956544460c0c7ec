package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dom/war-planner/internal/client"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/dom/war-planner/internal/topology"
)

// scopeFlags are shared by every board command.
type scopeFlags struct {
	plan string
	war  string
	bg   int
}

func addScopeFlags(fs *flag.FlagSet, env environment) *scopeFlags {
	f := &scopeFlags{}
	defaultBG := 1
	if n, err := strconv.Atoi(env.battlegroup); err == nil {
		defaultBG = n
	}
	fs.StringVar(&f.plan, "plan", "", "Defense plan id")
	fs.StringVar(&f.war, "war", "", "War id")
	fs.IntVar(&f.bg, "bg", defaultBG, "Battlegroup (1-3)")
	return f
}

// resolve applies PLANNER_SCOPE when neither --plan nor --war is given.
func (f *scopeFlags) resolve(env environment) (domain.Scope, error) {
	switch {
	case f.plan != "" && f.war != "":
		return domain.Scope{}, fmt.Errorf("--plan and --war are exclusive")
	case f.plan != "":
		return domain.ParseScope(domain.PlanScope(stringer(f.plan), domain.Battlegroup(f.bg)))
	case f.war != "":
		return domain.ParseScope(domain.WarScope(stringer(f.war), domain.Battlegroup(f.bg)))
	case env.scope != "":
		s, err := domain.ParseScope(env.scope)
		if err == nil && s.Kind == "season" {
			err = fmt.Errorf("PLANNER_SCOPE must name a plan or war")
		}
		return s, err
	}
	return domain.Scope{}, fmt.Errorf("one of --plan, --war or PLANNER_SCOPE is required")
}

type stringer string

func (s stringer) String() string { return string(s) }

// board is an open planning session of either kind.
type board struct {
	client  *client.Client
	scope   domain.Scope
	session *planning.Session
	defense *planning.DefensePlanner
	war     *planning.WarPlanner
}

func newClient(env environment) *client.Client {
	if env.token == "" {
		fail("PLANNER_TOKEN is not set; run \"planner login\" first")
	}
	return client.New(env.apiURL, client.WithToken(env.token))
}

// openBoard loads the plan or war header, then the session.
func openBoard(ctx context.Context, c *client.Client, scope domain.Scope, opts planning.Options) (*board, error) {
	b := &board{client: c, scope: scope}
	opts.ScopeID = scope.ID.String()
	opts.Battlegroup = int(scope.Battlegroup)

	if scope.Kind == "war" {
		war, err := c.GetWar(ctx, opts.ScopeID)
		if err != nil {
			return nil, err
		}
		limit, err := c.WarBanLimit(ctx, opts.ScopeID)
		if err != nil {
			return nil, err
		}
		opts.MapType = war.MapType
		w, err := planning.NewWarPlanner(c.Fights(), c, planning.WarOptions{
			Options:     opts,
			SeasonID:    war.SeasonID.String(),
			WarBanLimit: limit,
			Extras:      c,
			Bans:        c,
		})
		if err != nil {
			return nil, err
		}
		b.war, b.session = w, w.Session
		return b, w.Load(ctx)
	}

	plan, err := c.GetPlan(ctx, opts.ScopeID)
	if err != nil {
		return nil, err
	}
	opts.MapType = plan.MapType
	d, err := planning.NewDefensePlanner(c.Placements(), c, opts)
	if err != nil {
		return nil, err
	}
	b.defense, b.session = d, d.Session
	return b, d.Load(ctx)
}

// render prints one line per node in topology order.
func (b *board) render(w io.Writer) {
	scopeID, bg := b.session.Scope()
	fmt.Fprintf(w, "%s %s  battlegroup %d  (%s)\n", b.scope.Kind, scopeID, bg, b.session.MapType())

	records := make(map[int]planning.Record)
	for _, r := range b.session.Records() {
		records[r.NodeNumber] = r
	}
	for _, n := range topology.AssignableNumbers(b.session.MapType()) {
		r, ok := records[n]
		line := fmt.Sprintf("  #%-3d", n)
		if ok {
			line += " " + describe(r)
		} else {
			line += " -"
		}
		if b.session.IsPending(n) {
			line += "  (saving)"
		}
		fmt.Fprintln(w, line)
	}
	if b.war != nil {
		fmt.Fprintf(w, "  extras: %d  season bans: %s  war bans: %s\n",
			len(b.war.Extras()), banList(b.war.Bans(planning.SeasonBan)), banList(b.war.Bans(planning.WarBan)))
	}
	if err := b.session.LastError(); err != nil {
		fmt.Fprintf(w, "  last error: %v\n", err)
	}
}

func describe(r planning.Record) string {
	var parts []string
	champion := "-"
	if r.Champion != nil {
		champion = r.Champion.Name
	} else if r.ChampionID != nil {
		champion = *r.ChampionID
	}
	if r.StarLevel != nil {
		champion += fmt.Sprintf(" %d*", *r.StarLevel)
	}
	parts = append(parts, champion)
	if r.Player != nil {
		parts = append(parts, "by "+r.Player.Name)
	} else if r.PlayerID != nil {
		parts = append(parts, "by "+*r.PlayerID)
	}
	if r.Defender != nil {
		parts = append(parts, "vs "+r.Defender.Name)
	} else if r.DefenderID != nil {
		parts = append(parts, "vs "+*r.DefenderID)
	}
	if r.Death != nil {
		parts = append(parts, fmt.Sprintf("deaths %d", *r.Death))
	}
	if len(r.Prefights) > 0 {
		parts = append(parts, fmt.Sprintf("%d prefight(s)", len(r.Prefights)))
	}
	if r.Notes != "" {
		parts = append(parts, "\""+r.Notes+"\"")
	}
	return strings.Join(parts, "  ")
}

func banList(bans []planning.Ban) string {
	if len(bans) == 0 {
		return "none"
	}
	ids := make([]string, 0, len(bans))
	for _, b := range bans {
		ids = append(ids, b.ChampionID)
	}
	return strings.Join(ids, ",")
}
