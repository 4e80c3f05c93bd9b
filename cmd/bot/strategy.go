package main

import (
	"github.com/wricardo/broadside/game/engine"
)

// Strategy picks targets by hunting on a checkerboard until it hits, then
// working the neighbours of every hit before hunting again.
type Strategy struct {
	size    int
	rng     engine.Rand
	tried   map[engine.Coord]bool
	targets []engine.Coord
}

// NewStrategy creates a strategy for a size x size grid
func NewStrategy(size int, rng engine.Rand) *Strategy {
	return &Strategy{
		size:  size,
		rng:   rng,
		tried: make(map[engine.Coord]bool),
	}
}

// Next returns the next cell to fire at. ok is false once every cell has
// been tried.
func (s *Strategy) Next() (engine.Coord, bool) {
	for len(s.targets) > 0 {
		c := s.targets[len(s.targets)-1]
		s.targets = s.targets[:len(s.targets)-1]
		if c.InBounds(s.size) && !s.tried[c] {
			return c, true
		}
	}

	if c, ok := s.hunt(true); ok {
		return c, true
	}
	return s.hunt(false)
}

// hunt picks a random untried cell, restricted to one checkerboard colour
// when parity is set. Any ship of length two or more covers a parity cell;
// single-cell ships are left for the full sweep.
func (s *Strategy) hunt(parity bool) (engine.Coord, bool) {
	var candidates []engine.Coord
	for row := 0; row < s.size; row++ {
		for col := 0; col < s.size; col++ {
			c := engine.Coord{Row: row, Col: col}
			if s.tried[c] || (parity && (row+col)%2 != 0) {
				continue
			}
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return engine.Coord{}, false
	}
	return candidates[s.rng.IntN(len(candidates))], true
}

// Record marks a shot as resolved and queues the neighbours of a hit
func (s *Strategy) Record(c engine.Coord, outcome engine.Outcome) {
	s.tried[c] = true
	if outcome != engine.Hit {
		return
	}
	for _, d := range []engine.Coord{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}} {
		n := engine.Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if n.InBounds(s.size) && !s.tried[n] {
			s.targets = append(s.targets, n)
		}
	}
}

// Shots returns the number of recorded shots
func (s *Strategy) Shots() int {
	return len(s.tried)
}
