package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/war-planner/internal/client"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/logger"
	"github.com/dom/war-planner/internal/planning"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 30 * time.Second

func loginCmd(env environment, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	name := fs.String("name", "", "Player name")
	password := fs.String("password", os.Getenv("PLANNER_PASSWORD"), "Password (or PLANNER_PASSWORD)")
	fs.Parse(args)

	if *name == "" || *password == "" {
		fail("--name and --password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	c := client.New(env.apiURL)
	if _, err := c.Login(ctx, *name, *password); err != nil {
		fail("login failed: %v", err)
	}
	fmt.Println(c.Token())
}

// openFromFlags parses the scope flags and loads the board, exiting on
// failure.
func openFromFlags(ctx context.Context, env environment, sf *scopeFlags, opts planning.Options) *board {
	scope, err := sf.resolve(env)
	if err != nil {
		fail("%v", err)
	}
	b, err := openBoard(ctx, newClient(env), scope, opts)
	if err != nil {
		fail("load %s: %v", scope.Kind, err)
	}
	return b
}

func showCmd(env environment, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	sf := addScopeFlags(fs, env)
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	b := openFromFlags(ctx, env, sf, planning.Options{PollInterval: -1})
	defer b.session.Close()
	b.render(os.Stdout)
}

func watchCmd(env environment, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	sf := addScopeFlags(fs, env)
	interval := fs.Duration("interval", planning.DefaultPollInterval, "Poll interval; change notifications refresh sooner")
	fs.Parse(args)

	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changed := make(chan struct{}, 1)
	b := openFromFlags(ctx, env, sf, planning.Options{
		PollInterval: *interval,
		OnChange: func([]planning.Record) {
			select {
			case changed <- struct{}{}:
			default:
			}
		},
		OnError: func(err error) {
			log.Warn().Err(err).Msg("sync error")
		},
	})
	defer b.session.Close()
	b.session.Start()

	scopeName := domain.PlanScope(b.scope.ID, b.scope.Battlegroup)
	if b.scope.Kind == "war" {
		scopeName = domain.WarScope(b.scope.ID, b.scope.Battlegroup)
	}
	sub, err := b.client.Subscribe(ctx, scopeName, b.session)
	if err != nil {
		log.Warn().Err(err).Msg("change notifications unavailable, polling only")
	} else {
		defer sub.Close()
	}

	b.render(os.Stdout)
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			fmt.Println()
			b.render(os.Stdout)
		}
	}
}

func assignCmd(env environment, args []string) {
	fs := flag.NewFlagSet("assign", flag.ExitOnError)
	sf := addScopeFlags(fs, env)
	node := fs.Int("node", 0, "Node number")
	player := fs.String("player", "", "Player id")
	champion := fs.String("champion", "", "Champion id")
	stars := fs.Int("stars", 0, "Star level (defense only, 0 for roster lookup)")
	defender := fs.String("defender", "", "Opposing defender (attack only)")
	notes := fs.String("notes", "", "Notes for the node")
	fs.Parse(args)

	if *node == 0 {
		fail("--node is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	b := openFromFlags(ctx, env, sf, planning.Options{PollInterval: -1})
	defer b.session.Close()

	var err error
	switch {
	case b.defense != nil:
		if *player == "" || *champion == "" {
			fail("--player and --champion are required")
		}
		var starLevel *int
		if *stars > 0 {
			starLevel = stars
		} else if err := b.session.LoadRoster(ctx, *player); err != nil {
			log.Warn().Err(err).Msg("roster unavailable")
		}
		err = b.defense.AssignDefender(*node, *player, *champion, starLevel)
	default:
		if *defender != "" {
			if err = b.war.SetDefender(ctx, *node, defender); err != nil {
				break
			}
		}
		if *champion != "" {
			if *player == "" {
				fail("--player is required with --champion")
			}
			err = b.war.AssignAttacker(ctx, *node, *player, *champion)
		}
	}
	if err == nil && *notes != "" {
		if b.defense != nil {
			err = b.defense.SetNotes(*node, *notes)
		} else {
			err = b.war.SetNotes(ctx, *node, *notes)
		}
	}
	settle(b, err)
}

func autoCmd(env environment, args []string) {
	fs := flag.NewFlagSet("auto", flag.ExitOnError)
	sf := addScopeFlags(fs, env)
	player := fs.String("player", "", "Player id")
	champion := fs.String("champion", "", "Champion id")
	fs.Parse(args)

	if *player == "" || *champion == "" {
		fail("--player and --champion are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	b := openFromFlags(ctx, env, sf, planning.Options{PollInterval: -1})
	defer b.session.Close()
	if b.defense == nil {
		fail("auto placement only applies to defense plans")
	}
	if err := b.session.LoadRoster(ctx, *player); err != nil {
		log.Warn().Err(err).Msg("roster unavailable")
	}

	target, err := b.defense.AddFromTool(*player, *champion, nil)
	if err == nil && target != nil {
		fmt.Printf("Placing %s on node #%d\n", *champion, target.NodeNumber)
	}
	settle(b, err)
}

func clearCmd(env environment, args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	sf := addScopeFlags(fs, env)
	node := fs.Int("node", 0, "Node number")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	b := openFromFlags(ctx, env, sf, planning.Options{PollInterval: -1})
	defer b.session.Close()

	var err error
	if b.war != nil {
		err = b.war.RemoveAttacker(ctx, *node)
	} else {
		rec, ok := b.session.Record(*node)
		if !ok {
			fail("node #%d has no placement", *node)
		}
		err = b.defense.RemovePlacement(rec.ID)
	}
	settle(b, err)
}

func banCmd(env environment, args []string) {
	fs := flag.NewFlagSet("ban", flag.ExitOnError)
	sf := addScopeFlags(fs, env)
	champion := fs.String("champion", "", "Champion id")
	season := fs.Bool("season", false, "Ban for the whole season instead of this war")
	remove := fs.String("remove", "", "Ban id to lift instead of adding one")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	b := openFromFlags(ctx, env, sf, planning.Options{PollInterval: -1})
	defer b.session.Close()
	if b.war == nil {
		fail("bans are managed from a war (--war)")
	}

	kind := planning.WarBan
	if *season {
		kind = planning.SeasonBan
	}
	if *remove != "" {
		if err := b.war.RemoveBan(ctx, kind, *remove); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Lifted %s ban %s\n", kind, *remove)
		return
	}
	if *champion == "" {
		fail("--champion is required")
	}
	ban, err := b.war.AddBan(ctx, kind, *champion)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Banned %s for this %s (id %s)\n", ban.ChampionID, kind, ban.ID)
}

// settle waits for background saves and reports the outcome.
func settle(b *board, err error) {
	if err != nil {
		fail("%v", err)
	}
	b.session.Wait()
	if err := b.session.LastError(); err != nil {
		fail("save failed: %v", err)
	}
	b.render(os.Stdout)
}
