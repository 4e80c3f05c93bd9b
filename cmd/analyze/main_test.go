package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/broadside/game/engine"
)

const presetDir = "../../configs"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{"analyze"}, args...))
	return out.String(), err
}

func TestAnalyzeBoards(t *testing.T) {
	rules := engine.ClassicRules()
	var out bytes.Buffer

	stats := analyzeBoards(&out, rules, rand.New(rand.NewPCG(3, 4)), 300, false)

	if stats.Generated != 300 || stats.Failed != 0 || stats.Violations != 0 {
		t.Errorf("Unexpected stats: generated=%d failed=%d violations=%d",
			stats.Generated, stats.Failed, stats.Violations)
	}

	// Every board covers exactly the fleet's cells
	total := 0
	for _, row := range stats.Coverage {
		for _, n := range row {
			total += n
		}
	}
	if want := 300 * rules.Fleet.TotalCells(); total != want {
		t.Errorf("Expected %d covered cells, got %d", want, total)
	}
}

func TestAnalyzeBoards_Exhausted(t *testing.T) {
	rules := engine.ClassicRules()
	var out bytes.Buffer

	stats := analyzeBoards(&out, rules, fixedRand{}, 3, true)
	if stats.Failed != 3 || stats.Generated != 0 {
		t.Errorf("Expected every board to fail, got %+v", stats)
	}

	printBoardStats(&out, stats)
	if strings.Contains(out.String(), "Coverage") {
		t.Error("No coverage table expected without boards")
	}
}

type fixedRand struct{}

func (fixedRand) IntN(int) int { return 0 }

func TestBoardsCommand(t *testing.T) {
	out, err := runApp(t, "boards", "--dir", presetDir, "--rules", "skirmish", "--count", "100", "--print")
	if err != nil {
		t.Fatalf("boards failed: %v\n%s", err, out)
	}

	for _, want := range []string{
		"First board:",
		"Rules: Skirmish (7x7, 3 ships, 8 cells)",
		"Generated: 100, exhausted: 0, violations: 0",
		"Every generated board is a valid layout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestBoardsCommand_Errors(t *testing.T) {
	if _, err := runApp(t, "boards", "--dir", presetDir, "--count", "0"); err == nil {
		t.Error("Expected error for zero count")
	}
	if _, err := runApp(t, "boards", "--dir", presetDir, "--rules", "missing"); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestRulesCommand(t *testing.T) {
	t.Run("shipped presets", func(t *testing.T) {
		out, err := runApp(t, "rules", "--dir", presetDir)
		if err != nil {
			t.Fatalf("rules failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "All presets are valid!") {
			t.Errorf("Unexpected output:\n%s", out)
		}
	})

	t.Run("invalid preset", func(t *testing.T) {
		dir := t.TempDir()
		os.WriteFile(filepath.Join(dir, "good.json"),
			[]byte(`{"name":"Good","grid_size":6,"fleet":[{"name":"a","length":2}]}`), 0644)
		os.WriteFile(filepath.Join(dir, "crowded.json"),
			[]byte(`{"name":"Crowded","grid_size":5,"fleet":[{"name":"a","length":5},{"name":"b","length":5},{"name":"c","length":5}]}`), 0644)

		out, err := runApp(t, "rules", "--dir", dir)
		if err != errInvalidPresets {
			t.Fatalf("Expected errInvalidPresets, got %v", err)
		}
		if !strings.Contains(out, "crowded.json") || !strings.Contains(out, "INVALID") {
			t.Errorf("Unexpected output:\n%s", out)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if _, err := runApp(t, "rules", "--dir", t.TempDir()); err == nil {
			t.Error("Expected error for a directory without presets")
		}
	})
}

func TestValidateDir_Order(t *testing.T) {
	results, err := validateDir(presetDir)
	if err != nil {
		t.Fatalf("validateDir failed: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].File > results[i].File {
			t.Errorf("Results not sorted: %s before %s", results[i-1].File, results[i].File)
		}
	}
}
