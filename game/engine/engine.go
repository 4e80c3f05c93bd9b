package engine

import (
	"errors"
	"fmt"
)

var (
	ErrMatchOver    = errors.New("match is over")
	ErrInvalidSlot  = errors.New("invalid slot")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrAlreadyFired = errors.New("already fired there")
)

// Reasons a match ended
const (
	ReasonVictory = "victory"
	ReasonForfeit = "forfeit"
)

// Match holds the authoritative state of one two-player game. Boards,
// placements and shot sets are indexed by slot. Shots are recorded against the
// firer, never by mutating the opponent's board.
type Match struct {
	Rules      *Rules
	Boards     [SlotCount]*Board
	Placements [SlotCount]Placement
	Hits       [SlotCount]map[Coord]struct{}
	Misses     [SlotCount]map[Coord]struct{}
	Scores     [SlotCount]int
	Turn       int
	Over       bool
	Winner     int
	Reason     string
}

// FireResult describes a resolved shot and the state transition it caused
type FireResult struct {
	Slot       int
	Target     Coord
	Outcome    Outcome
	Remaining  int
	Scores     [SlotCount]int
	GameOver   bool
	NextTurn   int
	ScoreDelta int
}

// NewMatch generates two independent boards for the rules
func NewMatch(rules *Rules, rng Rand) (*Match, error) {
	var boards [SlotCount]*Board
	var placements [SlotCount]Placement

	for slot := 0; slot < SlotCount; slot++ {
		board, placement, err := GenerateBoard(rules, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate board for slot %d: %w", slot, err)
		}
		boards[slot] = board
		placements[slot] = placement
	}

	return NewMatchWithBoards(rules, boards, placements), nil
}

// NewMatchWithBoards creates a match from prepared boards. Slot 0 moves first.
func NewMatchWithBoards(rules *Rules, boards [SlotCount]*Board, placements [SlotCount]Placement) *Match {
	m := &Match{
		Rules:      rules,
		Boards:     boards,
		Placements: placements,
		Winner:     NoWinner,
	}
	for slot := 0; slot < SlotCount; slot++ {
		m.Hits[slot] = make(map[Coord]struct{})
		m.Misses[slot] = make(map[Coord]struct{})
	}
	return m
}

// Opponent returns the other slot
func Opponent(slot int) int {
	return 1 - slot
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < SlotCount
}

// HasFired reports whether slot already targeted the coordinate
func (m *Match) HasFired(slot int, target Coord) bool {
	if !validSlot(slot) {
		return false
	}
	if _, ok := m.Hits[slot][target]; ok {
		return true
	}
	_, ok := m.Misses[slot][target]
	return ok
}

// Remaining counts the opponent's occupied cells that slot has not hit yet
func (m *Match) Remaining(slot int) int {
	board := m.Boards[Opponent(slot)]
	remaining := 0
	for _, c := range board.OccupiedCells() {
		if _, hit := m.Hits[slot][c]; !hit {
			remaining++
		}
	}
	return remaining
}

// Fire resolves a shot by slot at target. Validation failures leave the match
// untouched. Out of bounds targets resolve as a miss.
func (m *Match) Fire(slot int, target Coord) (*FireResult, error) {
	if m.Over {
		return nil, ErrMatchOver
	}
	if !validSlot(slot) {
		return nil, ErrInvalidSlot
	}
	if slot != m.Turn {
		return nil, ErrNotYourTurn
	}
	if m.HasFired(slot, target) {
		return nil, ErrAlreadyFired
	}

	opponent := Opponent(slot)
	result := &FireResult{
		Slot:   slot,
		Target: target,
	}

	if m.Boards[opponent].Occupied(target) {
		m.Hits[slot][target] = struct{}{}
		m.Scores[slot]++
		result.Outcome = Hit
		result.ScoreDelta = 1
	} else {
		m.Misses[slot][target] = struct{}{}
		result.Outcome = Miss
	}

	result.Remaining = m.Remaining(slot)
	if result.Remaining == 0 {
		m.Over = true
		m.Winner = slot
		m.Reason = ReasonVictory
		result.GameOver = true
		result.NextTurn = m.Turn
	} else {
		m.Turn = opponent
		result.NextTurn = opponent
	}
	result.Scores = m.Scores

	return result, nil
}

// Forfeit ends the match in favour of the opponent of loser
func (m *Match) Forfeit(loser int) error {
	if m.Over {
		return ErrMatchOver
	}
	if !validSlot(loser) {
		return ErrInvalidSlot
	}
	m.Over = true
	m.Winner = Opponent(loser)
	m.Reason = ReasonForfeit
	return nil
}

// ShotCount returns how many shots slot has taken
func (m *Match) ShotCount(slot int) int {
	if !validSlot(slot) {
		return 0
	}
	return len(m.Hits[slot]) + len(m.Misses[slot])
}
