// Package config loads Broadside rules presets.
//
// A preset is a JSON file in the config directory naming the grid size and
// the fleet:
//
//	{
//	  "name": "Skirmish",
//	  "description": "Quick 7x7 match",
//	  "grid_size": 7,
//	  "fleet": [{"name": "cruiser", "length": 3}, {"name": "destroyer", "length": 2}]
//	}
//
// The preset id is the file name without its .json extension. The classic
// preset is built in and a classic.json file overrides it. Every preset is
// checked with engine.ValidateRules before use and cached after the first
// load.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadConfig("skirmish")
//	presets, err := manager.ListConfigs()
package config
