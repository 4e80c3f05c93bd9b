// Command analyze checks Broadside rules presets and the board generator.
//
//	analyze boards --rules classic --count 5000 --seed 7 --print
//	analyze rules --dir configs
//
// The boards command generates many layouts, verifies each one and prints how
// often every cell ends up covered by a ship. The rules command validates
// every preset file in a directory and exits non-zero if any is invalid.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/broadside/game/config"
	"github.com/wricardo/broadside/game/engine"
)

var errInvalidPresets = errors.New("some presets have errors")

// BoardStats summarizes a batch of generated boards
type BoardStats struct {
	Rules      *engine.Rules
	Generated  int
	Failed     int
	Violations int
	// Coverage counts, per cell, the boards that placed a ship there
	Coverage [][]int
}

// ValidationResult captures the outcome of validating a single preset file.
type ValidationResult struct {
	File  string
	Valid bool
	Err   error
	Rules *engine.Rules
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "inspect Broadside rules presets and generated boards",
		Commands: []*cli.Command{
			{
				Name:  "boards",
				Usage: "generate boards and report placement coverage",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: "configs", Usage: "rules preset directory"},
					&cli.StringFlag{Name: "rules", Value: config.ClassicID, Usage: "rules preset id"},
					&cli.IntFlag{Name: "count", Value: 1000, Usage: "number of boards to generate"},
					&cli.IntFlag{Name: "seed", Value: 1, Usage: "random seed"},
					&cli.BoolFlag{Name: "print", Usage: "print the first generated board"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					count := int(cmd.Int("count"))
					if count < 1 {
						return fmt.Errorf("count must be positive, got %d", count)
					}

					manager, err := config.NewManager(cmd.String("dir"))
					if err != nil {
						return err
					}
					rules, err := manager.LoadConfig(cmd.String("rules"))
					if err != nil {
						return err
					}

					seed := uint64(cmd.Int("seed"))
					rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

					w := cmd.Root().Writer
					stats := analyzeBoards(w, rules, rng, count, cmd.Bool("print"))
					printBoardStats(w, stats)

					if stats.Violations > 0 {
						return fmt.Errorf("%d boards broke placement rules", stats.Violations)
					}
					return nil
				},
			},
			{
				Name:  "rules",
				Usage: "validate every rules preset in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: "configs", Usage: "rules preset directory"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					results, err := validateDir(cmd.String("dir"))
					if err != nil {
						return err
					}
					if !printValidation(cmd.Root().Writer, results) {
						return errInvalidPresets
					}
					return nil
				},
			},
		},
	}
}

// analyzeBoards generates count boards and checks every layout
func analyzeBoards(w io.Writer, rules *engine.Rules, rng engine.Rand, count int, print bool) *BoardStats {
	stats := &BoardStats{
		Rules:    rules,
		Coverage: make([][]int, rules.GridSize),
	}
	for i := range stats.Coverage {
		stats.Coverage[i] = make([]int, rules.GridSize)
	}

	for i := 0; i < count; i++ {
		board, placement, err := engine.GenerateBoard(rules, rng)
		if err != nil {
			stats.Failed++
			continue
		}
		stats.Generated++

		if err := engine.VerifyLayout(rules, board, placement); err != nil {
			stats.Violations++
			fmt.Fprintf(w, "⚠️  board %d: %v\n", i+1, err)
		}

		for _, c := range board.OccupiedCells() {
			stats.Coverage[c.Row][c.Col]++
		}

		if print && i == 0 {
			fmt.Fprintf(w, "First board:\n%s\n", board)
		}
	}

	return stats
}

func printBoardStats(w io.Writer, stats *BoardStats) {
	rules := stats.Rules
	fmt.Fprintf(w, "Rules: %s (%dx%d, %d ships, %d cells)\n",
		rules.Name, rules.GridSize, rules.GridSize, len(rules.Fleet), rules.Fleet.TotalCells())
	fmt.Fprintf(w, "Generated: %d, exhausted: %d, violations: %d\n",
		stats.Generated, stats.Failed, stats.Violations)

	if stats.Generated == 0 {
		return
	}

	fmt.Fprintln(w, "Coverage (% of boards with a ship on the cell):")
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	header := []string{""}
	for col := 0; col < rules.GridSize; col++ {
		header = append(header, fmt.Sprint(col))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for row, counts := range stats.Coverage {
		line := []string{fmt.Sprint(row)}
		for _, n := range counts {
			line = append(line, fmt.Sprintf("%d", n*100/stats.Generated))
		}
		fmt.Fprintln(tw, strings.Join(line, "\t")+"\t")
	}
	tw.Flush()

	if stats.Violations == 0 {
		fmt.Fprintln(w, "✅ Every generated board is a valid layout")
	}
}

// validateDir reads every *.json preset in dir
func validateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no presets found in %s", dir)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		rules, err := config.ReadFile(file)
		results = append(results, ValidationResult{
			File:  filepath.Base(file),
			Valid: err == nil,
			Err:   err,
			Rules: rules,
		})
	}
	return results, nil
}

// printValidation reports results and returns true when all presets are valid
func printValidation(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			fmt.Fprintf(w, "  %s: %dx%d, %d ships, %d cells\n",
				result.Rules.Name, result.Rules.GridSize, result.Rules.GridSize,
				len(result.Rules.Fleet), result.Rules.Fleet.TotalCells())
			continue
		}
		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		fmt.Fprintf(w, "  ❌ %v\n", result.Err)
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All presets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some presets have errors")
	}
	return allValid
}
