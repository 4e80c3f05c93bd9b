package engine

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

// fixedRand always returns the same value, forcing every trial onto one cell
type fixedRand struct{ value int }

func (r fixedRand) IntN(n int) int {
	if r.value >= n {
		return n - 1
	}
	return r.value
}

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func TestNewBoard(t *testing.T) {
	board := NewBoard(7)

	if board.Size != 7 {
		t.Errorf("Expected size 7, got %d", board.Size)
	}
	if len(board.Cells) != 7 {
		t.Fatalf("Expected 7 rows, got %d", len(board.Cells))
	}
	for r, row := range board.Cells {
		if len(row) != 7 {
			t.Errorf("Row %d: expected 7 columns, got %d", r, len(row))
		}
		for c, v := range row {
			if v != 0 {
				t.Errorf("Found non-empty cell at (%d,%d)", r, c)
			}
		}
	}
	if len(board.OccupiedCells()) != 0 {
		t.Error("Expected no occupied cells on a new board")
	}
}

func TestSpan(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		cells := Span(Coord{2, 3}, Horizontal, 3)
		expected := []Coord{{2, 3}, {2, 4}, {2, 5}}
		for i := range expected {
			if cells[i] != expected[i] {
				t.Errorf("cells[%d] = %s, expected %s", i, cells[i], expected[i])
			}
		}
	})

	t.Run("vertical", func(t *testing.T) {
		cells := Span(Coord{2, 3}, Vertical, 3)
		expected := []Coord{{2, 3}, {3, 3}, {4, 3}}
		for i := range expected {
			if cells[i] != expected[i] {
				t.Errorf("cells[%d] = %s, expected %s", i, cells[i], expected[i])
			}
		}
	})
}

func TestBoardPlace(t *testing.T) {
	board := NewBoard(5)

	if err := board.Place(0, Span(Coord{1, 1}, Horizontal, 2)); err != nil {
		t.Fatalf("Failed to place ship: %v", err)
	}

	if !board.Occupied(Coord{1, 1}) || !board.Occupied(Coord{1, 2}) {
		t.Error("Expected placed cells to be occupied")
	}
	if board.Cells[1][1] != 1 {
		t.Errorf("Expected fleet marker 1, got %d", board.Cells[1][1])
	}

	t.Run("overlap rejected", func(t *testing.T) {
		if err := board.Place(1, Span(Coord{0, 2}, Vertical, 3)); err == nil {
			t.Error("Expected error placing over an existing ship")
		}
		if board.Occupied(Coord{0, 2}) {
			t.Error("Rejected placement must not mark any cell")
		}
	})

	t.Run("out of bounds rejected", func(t *testing.T) {
		if err := board.Place(1, Span(Coord{4, 4}, Horizontal, 2)); err == nil {
			t.Error("Expected error placing past the edge")
		}
	})

	t.Run("out of bounds never occupied", func(t *testing.T) {
		for _, c := range []Coord{{-1, 0}, {0, -1}, {5, 0}, {0, 5}} {
			if board.Occupied(c) {
				t.Errorf("%s should not be occupied", c)
			}
		}
	})
}

func TestGenerateBoard_LayoutInvariants(t *testing.T) {
	rules := ClassicRules()

	for seed := uint64(1); seed <= 200; seed++ {
		board, placement, err := GenerateBoard(rules, newTestRand(seed))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if err := VerifyLayout(rules, board, placement); err != nil {
			t.Fatalf("seed %d: invalid layout: %v\n%s", seed, err, board)
		}
		if got := len(board.OccupiedCells()); got != rules.Fleet.TotalCells() {
			t.Fatalf("seed %d: expected %d occupied cells, got %d", seed, rules.Fleet.TotalCells(), got)
		}
	}
}

func TestGenerateBoard_IndependentBoards(t *testing.T) {
	rules := ClassicRules()
	rng := newTestRand(42)

	first, firstPlacement, err := GenerateBoard(rules, rng)
	if err != nil {
		t.Fatalf("Failed to generate first board: %v", err)
	}
	second, secondPlacement, err := GenerateBoard(rules, rng)
	if err != nil {
		t.Fatalf("Failed to generate second board: %v", err)
	}

	if first == second {
		t.Fatal("Expected distinct board instances")
	}
	if err := VerifyLayout(rules, first, firstPlacement); err != nil {
		t.Errorf("First board invalid: %v", err)
	}
	if err := VerifyLayout(rules, second, secondPlacement); err != nil {
		t.Errorf("Second board invalid: %v", err)
	}
}

func TestGenerateBoard_Exhausted(t *testing.T) {
	// Every trial lands on (0,0) horizontally: the first ship fits, the second never does.
	_, _, err := GenerateBoard(ClassicRules(), fixedRand{value: 0})
	if err == nil {
		t.Fatal("Expected placement to fail")
	}
	if !errors.Is(err, ErrPlacementExhausted) {
		t.Errorf("Expected ErrPlacementExhausted, got %v", err)
	}
	if !strings.Contains(err.Error(), "battleship") {
		t.Errorf("Expected error to name the failing ship, got %v", err)
	}
}

func TestBoardString(t *testing.T) {
	board := NewBoard(5)
	board.Place(0, Span(Coord{0, 0}, Horizontal, 2))

	out := board.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected header plus 5 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "1") || !strings.Contains(lines[1], "~") {
		t.Errorf("Expected first row to show ship and water, got %q", lines[1])
	}
}
