package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dom/war-planner/internal/client"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
)

// seedCmd fills a development server with players, rosters, a defense plan
// and a war so the board commands have something to show.
func seedCmd(env environment, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	perBG := fs.Int("players", 10, "Players to create per battlegroup")
	mapType := fs.String("map", string(domain.MapTypeStandard), "Map type for the plan and war")
	password := fs.String("password", "testpassword123", "Password for the created players")
	fs.Parse(args)

	if *perBG < 1 || *perBG > 10 {
		fail("--players must be between 1 and 10")
	}
	mt := domain.MapType(*mapType)
	if !mt.IsValid() {
		fail("unknown map type %q", *mapType)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c := newClient(env)
	fmt.Println("=== Seeding war planner ===")
	fmt.Println()

	fmt.Print("Loading champion catalog... ")
	champions, err := c.FetchChampions(ctx)
	if err != nil {
		fail("%v", err)
	}
	if len(champions) == 0 {
		fail("the catalog is empty; import it with server -import-champions first")
	}
	fmt.Printf("OK (%d champions)\n", len(champions))

	suffix := time.Now().UnixNano() % 100000
	for bg := 1; bg <= 3; bg++ {
		fmt.Printf("Battlegroup %d:\n", bg)
		for i := 1; i <= *perBG; i++ {
			name := fmt.Sprintf("bg%d_player%d_%d", bg, i, suffix)
			player, err := c.RegisterPlayer(ctx, name, *password, bg, false)
			if err != nil {
				fmt.Printf("  [%d/%d] FAILED to create player: %v\n", i, *perBG, err)
				continue
			}
			added := seedRoster(ctx, c, player.ID.String(), champions, bg*100+i)
			fmt.Printf("  [%d/%d] %s (%d champions)\n", i, *perBG, player.Name, added)
		}
	}

	fmt.Println()
	plan, err := c.CreatePlan(ctx, fmt.Sprintf("Seeded plan %d", suffix), mt)
	if err != nil {
		fail("create plan: %v", err)
	}
	season, err := c.CreateSeason(ctx, fmt.Sprintf("Seeded season %d", suffix))
	if err != nil {
		fail("create season: %v", err)
	}
	war, err := c.CreateWar(ctx, season.ID.String(), "Seeded opponent", mt, 5)
	if err != nil {
		fail("create war: %v", err)
	}

	fmt.Println("=========================================")
	fmt.Println("  SEEDED")
	fmt.Println("=========================================")
	fmt.Printf("  Plan:   %s\n", domain.PlanScope(plan.ID, 1))
	fmt.Printf("  Season: %s\n", domain.SeasonScope(season.ID))
	fmt.Printf("  War:    %s\n", domain.WarScope(war.ID, 1))
	fmt.Println()
	fmt.Printf("  planner watch --war=%s --bg=1\n", war.ID)
}

// seedRoster gives a player a varied slice of the catalog. The offset
// keeps rosters from being identical across players.
func seedRoster(ctx context.Context, c *client.Client, playerID string, champions []planning.ChampionSummary, offset int) int {
	const rosterSize = 12
	added := 0
	for i := 0; i < rosterSize && i < len(champions); i++ {
		champ := champions[(offset*7+i*3)%len(champions)]
		stars := 5 + (offset+i)%3
		rank := 1 + (offset+i)%4
		if _, err := c.SetRosterEntry(ctx, playerID, champ.ID, stars, rank); err != nil {
			continue
		}
		added++
	}
	return added
}
