package engine

import "fmt"

const (
	// DefaultGridSize is the side length of the classic board.
	DefaultGridSize = 10

	// Validation constants
	MinGridSize = 5
	MaxGridSize = 26
	MaxShips    = 10

	// MaxPlacementAttempts bounds the random trials spent on a single ship.
	MaxPlacementAttempts = 1000

	// Slots per match
	SlotCount = 2
	NoWinner  = -1
)

// Outcome is the classification of a resolved shot
type Outcome string

const (
	Hit  Outcome = "hit"
	Miss Outcome = "miss"
)

// Axis is the orientation of a placed ship
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Coord is a zero-indexed row/column pair. It is comparable and used directly
// as a map key for shot sets.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the coordinate lies on a size x size grid
func (c Coord) InBounds(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// ShipSpec describes one ship of a fleet
type ShipSpec struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// Fleet is the ordered list of ships every board must contain
type Fleet []ShipSpec

// TotalCells returns the number of grid cells the fleet occupies
func (f Fleet) TotalCells() int {
	total := 0
	for _, ship := range f {
		total += ship.Length
	}
	return total
}

// Rules defines the grid and fleet shared by every match in the process
type Rules struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	GridSize    int    `json:"grid_size"`
	Fleet       Fleet  `json:"fleet"`
}

// ClassicRules returns the standard 10x10 rules with a five ship fleet
func ClassicRules() *Rules {
	return &Rules{
		Name:        "Classic",
		Description: "10x10 grid with carrier, battleship, cruiser, submarine and destroyer",
		GridSize:    DefaultGridSize,
		Fleet: Fleet{
			{Name: "carrier", Length: 5},
			{Name: "battleship", Length: 4},
			{Name: "cruiser", Length: 3},
			{Name: "submarine", Length: 3},
			{Name: "destroyer", Length: 2},
		},
	}
}

// Placement maps a ship name to the ordered cells it occupies
type Placement map[string][]Coord

// Rand is the subset of *math/rand/v2.Rand used by the board generator
type Rand interface {
	IntN(n int) int
}
