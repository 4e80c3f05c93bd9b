package engine

import (
	"fmt"
	"strings"
)

// ValidateRules validates a rules preset for correctness and packability
func ValidateRules(rules *Rules) error {
	if rules == nil {
		return fmt.Errorf("rules validation: rules are required")
	}
	if strings.TrimSpace(rules.Name) == "" {
		return fmt.Errorf("rules validation: name is required")
	}

	if rules.GridSize < MinGridSize || rules.GridSize > MaxGridSize {
		return fmt.Errorf("rules validation: grid_size must be between %d and %d, got %d",
			MinGridSize, MaxGridSize, rules.GridSize)
	}

	if len(rules.Fleet) == 0 || len(rules.Fleet) > MaxShips {
		return fmt.Errorf("rules validation: fleet must have between 1 and %d ships, got %d",
			MaxShips, len(rules.Fleet))
	}

	seen := make(map[string]bool, len(rules.Fleet))
	for i, ship := range rules.Fleet {
		name := strings.TrimSpace(ship.Name)
		if name == "" {
			return fmt.Errorf("rules validation: ship %d has no name", i+1)
		}
		if seen[name] {
			return fmt.Errorf("rules validation: duplicate ship name %q", name)
		}
		seen[name] = true

		if ship.Length < 1 || ship.Length > rules.GridSize {
			return fmt.Errorf("rules validation: ship %q length must be between 1 and %d, got %d",
				name, rules.GridSize, ship.Length)
		}
	}

	// Keep the fleet sparse enough that random placement practically never
	// exhausts its trial budget.
	cells := rules.GridSize * rules.GridSize
	if total := rules.Fleet.TotalCells(); total*2 > cells {
		return fmt.Errorf("rules validation: fleet covers %d of %d cells, at most half the grid is allowed",
			total, cells)
	}

	return nil
}
