package engine

import "fmt"

// VerifyLayout checks that a board and its placement describe the same fleet:
// every ship is present with its declared length, each ship is a straight
// contiguous in-bounds run, ships never overlap, and the occupied cells of the
// board are exactly the union of the placement.
func VerifyLayout(rules *Rules, board *Board, placement Placement) error {
	if board.Size != rules.GridSize {
		return fmt.Errorf("board size %d does not match grid size %d", board.Size, rules.GridSize)
	}
	if len(placement) != len(rules.Fleet) {
		return fmt.Errorf("placement has %d ships, fleet has %d", len(placement), len(rules.Fleet))
	}

	owner := make(map[Coord]string)
	for _, ship := range rules.Fleet {
		cells, ok := placement[ship.Name]
		if !ok {
			return fmt.Errorf("ship %s missing from placement", ship.Name)
		}
		if len(cells) != ship.Length {
			return fmt.Errorf("ship %s covers %d cells, want %d", ship.Name, len(cells), ship.Length)
		}
		if !straightRun(cells) {
			return fmt.Errorf("ship %s is not a straight contiguous run: %v", ship.Name, cells)
		}
		for _, c := range cells {
			if !c.InBounds(rules.GridSize) {
				return fmt.Errorf("ship %s leaves the grid at %s", ship.Name, c)
			}
			if other, taken := owner[c]; taken {
				return fmt.Errorf("ships %s and %s overlap at %s", other, ship.Name, c)
			}
			owner[c] = ship.Name
		}
	}

	occupied := board.OccupiedCells()
	if len(occupied) != len(owner) {
		return fmt.Errorf("board has %d occupied cells, placement covers %d", len(occupied), len(owner))
	}
	for _, c := range occupied {
		if _, ok := owner[c]; !ok {
			return fmt.Errorf("board cell %s is occupied but not in placement", c)
		}
	}

	return nil
}

func straightRun(cells []Coord) bool {
	if len(cells) < 2 {
		return true
	}
	dr := cells[1].Row - cells[0].Row
	dc := cells[1].Col - cells[0].Col
	if !((dr == 0 && dc == 1) || (dr == 1 && dc == 0)) {
		return false
	}
	for i := 1; i < len(cells); i++ {
		if cells[i].Row-cells[i-1].Row != dr || cells[i].Col-cells[i-1].Col != dc {
			return false
		}
	}
	return true
}
