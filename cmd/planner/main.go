package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global settings
	env := environment{
		apiURL:      getEnv("PLANNER_API_URL", "http://localhost:8080"),
		token:       os.Getenv("PLANNER_TOKEN"),
		scope:       os.Getenv("PLANNER_SCOPE"),
		battlegroup: os.Getenv("PLANNER_BATTLEGROUP"),
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "login":
		loginCmd(env, args)
	case "show":
		showCmd(env, args)
	case "watch":
		watchCmd(env, args)
	case "assign":
		assignCmd(env, args)
	case "auto":
		autoCmd(env, args)
	case "clear":
		clearCmd(env, args)
	case "ban":
		banCmd(env, args)
	case "seed":
		seedCmd(env, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`War Planner - headless client for defense plans and wars

USAGE:
  planner <command> [options]

COMMANDS:
  login     Log in and print an access token
  show      Print the board of a plan or war battlegroup
  watch     Keep the board in sync and reprint it on every change
  assign    Put a champion (and player) on a node
  auto      Place a champion on the next free node for a player
  clear     Remove the champion from a node
  ban       Add a season or war ban (officers only)
  seed      Create players, rosters, a plan and a war (officers only)
  help      Show this help message

SCOPE:
  --plan=<id> or --war=<id> selects the board; --bg selects the battlegroup.

ENVIRONMENT:
  PLANNER_API_URL      Backend URL (default: http://localhost:8080)
  PLANNER_TOKEN        Access token from "planner login"
  PLANNER_SCOPE        Default scope, e.g. plan:<id>:bg:1 or war:<id>:bg:2
  PLANNER_BATTLEGROUP  Default battlegroup when no scope is given

EXAMPLES:
  export PLANNER_TOKEN=$(planner login --name=ana --password=secret)

  # Follow battlegroup 2 of a war as teammates edit it
  planner watch --war=6f1c1a8e-2f57-4a53-9d8b-6b4f1f0c7a11 --bg=2

  # Put Hulk on node 12 of a defense plan
  planner assign --plan=0b5b0f53-3c55-4c2b-9a52-7f1e4b0d2a10 --node=12 --player=<player id> --champion=hulk --stars=6

  # Let the planner pick the node
  planner auto --plan=0b5b0f53-3c55-4c2b-9a52-7f1e4b0d2a10 --player=<player id> --champion=hulk`)
}

type environment struct {
	apiURL      string
	token       string
	scope       string
	battlegroup string
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func fail(format string, args ...interface{}) {
	fmt.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}
