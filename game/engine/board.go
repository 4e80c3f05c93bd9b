package engine

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
)

var ErrPlacementExhausted = errors.New("ship placement attempts exhausted")

// Board is a square grid owned by one side of a match. A cell holds 0 when
// empty, otherwise the 1-based fleet index of the ship occupying it.
type Board struct {
	Size  int     `json:"size"`
	Cells [][]int `json:"cells"`
}

// NewBoard creates an empty size x size board
func NewBoard(size int) *Board {
	cells := make([][]int, size)
	for row := range cells {
		cells[row] = make([]int, size)
	}
	return &Board{Size: size, Cells: cells}
}

// Occupied reports whether a ship covers the coordinate. Out of bounds
// coordinates are never occupied.
func (b *Board) Occupied(c Coord) bool {
	if !c.InBounds(b.Size) {
		return false
	}
	return b.Cells[c.Row][c.Col] != 0
}

// OccupiedCells lists every covered coordinate in row-major order
func (b *Board) OccupiedCells() []Coord {
	var cells []Coord
	for r, row := range b.Cells {
		for c, v := range row {
			if v != 0 {
				cells = append(cells, Coord{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Span returns the cells a ship of the given length covers from origin along
// axis, without checking bounds.
func Span(origin Coord, axis Axis, length int) []Coord {
	cells := make([]Coord, length)
	for i := 0; i < length; i++ {
		if axis == Horizontal {
			cells[i] = Coord{Row: origin.Row, Col: origin.Col + i}
		} else {
			cells[i] = Coord{Row: origin.Row + i, Col: origin.Col}
		}
	}
	return cells
}

// CanPlace reports whether every cell is in bounds and empty
func (b *Board) CanPlace(cells []Coord) bool {
	for _, c := range cells {
		if !c.InBounds(b.Size) || b.Cells[c.Row][c.Col] != 0 {
			return false
		}
	}
	return true
}

// Place marks cells with the 1-based fleet index of the ship
func (b *Board) Place(fleetIndex int, cells []Coord) error {
	if !b.CanPlace(cells) {
		return fmt.Errorf("cannot place ship %d at %v", fleetIndex, cells)
	}
	for _, c := range cells {
		b.Cells[c.Row][c.Col] = fleetIndex + 1
	}
	return nil
}

// GenerateBoard randomly places every ship of the fleet on an empty board.
// Each ship gets at most MaxPlacementAttempts trials; running out is treated
// as a broken rules/generator combination and reported as ErrPlacementExhausted.
func GenerateBoard(rules *Rules, rng Rand) (*Board, Placement, error) {
	board := NewBoard(rules.GridSize)
	placement := make(Placement, len(rules.Fleet))

	for i, ship := range rules.Fleet {
		placed := false
		for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
			axis := Axis(rng.IntN(2))
			origin := Coord{Row: rng.IntN(rules.GridSize), Col: rng.IntN(rules.GridSize)}
			cells := Span(origin, axis, ship.Length)
			if !board.CanPlace(cells) {
				continue
			}
			if err := board.Place(i, cells); err != nil {
				return nil, nil, err
			}
			placement[ship.Name] = cells
			placed = true
			break
		}
		if !placed {
			return nil, nil, fmt.Errorf("%w: %s (length %d) after %d trials",
				ErrPlacementExhausted, ship.Name, ship.Length, MaxPlacementAttempts)
		}
	}

	return board, placement, nil
}

// String renders the board with row and column headers. Ship cells show their
// fleet index, water is '~'.
func (b *Board) String() string {
	if b.Size == 0 {
		return "EMPTY BOARD\n"
	}

	var buffer bytes.Buffer
	w := tabwriter.NewWriter(&buffer, 3, 0, 1, ' ', 0)

	fmt.Fprint(w, "\t")
	for col := 0; col < b.Size; col++ {
		fmt.Fprint(w, strconv.Itoa(col)+"\t")
	}
	fmt.Fprint(w, "\n")

	for row := 0; row < b.Size; row++ {
		fmt.Fprint(w, strconv.Itoa(row)+"\t")
		for col := 0; col < b.Size; col++ {
			if v := b.Cells[row][col]; v != 0 {
				fmt.Fprint(w, strconv.Itoa(v)+"\t")
			} else {
				fmt.Fprint(w, "~\t")
			}
		}
		fmt.Fprint(w, "\n")
	}
	w.Flush()
	return buffer.String()
}
