// Command bot is an automated Broadside player. It connects to a running
// server over the WebSocket, joins the matchmaking queue and plays with a
// hunt-and-target strategy. Two bots make a quick smoke test:
//
//	bot -name alice -games 3 &
//	bot -name bob -games 3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	serverURL := flag.String("url", serverURLDefault(), "Game server URL")
	name := flag.String("name", "", "Display name (default assigned by the server)")
	games := flag.Int("games", 1, "Number of matches to play")
	delayMs := flag.Int("delay", 0, "Delay between shots in milliseconds (0 = no delay)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *games < 1 {
		log.Fatalf("games must be positive, got %d", *games)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot := NewBot(*serverURL, *name, *games)
	bot.Delay = time.Duration(*delayMs) * time.Millisecond
	bot.Verbose = *verbose

	results, err := bot.Run(ctx)
	printSummary(results)
	if err != nil {
		log.Fatalf("bot stopped: %v", err)
	}
}

// serverURLDefault honors BROADSIDE_URL, then falls back to localhost
func serverURLDefault() string {
	if u := os.Getenv("BROADSIDE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func printSummary(results []Result) {
	wins := 0
	for i, r := range results {
		outcome := "LOST"
		if r.Won {
			outcome = "WON"
		}
		if r.Reason != "" {
			outcome += " (" + r.Reason + ")"
		}
		if r.Won {
			wins++
		}
		fmt.Printf("#%d %s vs %s: %s, %d shots, score %d-%d\n",
			i+1, r.SessionID, r.Opponent, outcome, r.Shots, r.Scores[0], r.Scores[1])
	}
	fmt.Printf("Won %d of %d matches\n", wins, len(results))
}
