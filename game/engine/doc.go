// Package engine provides the core game logic for Broadside, a two-player
// grid combat game.
//
// The engine package implements:
//   - Fleet and rules definitions (grid size, ordered ship specs)
//   - Random, collision-free board generation with a bounded trial budget
//   - The per-match state machine: turn ownership, shot validation,
//     hit/miss bookkeeping, scoring, victory and forfeit
//   - Rules and layout validation
//
// Core Types:
//
// Rules describes the grid and fleet. GenerateBoard produces a Board and the
// matching Placement (ship name to cells) for one side. Match holds both
// sides of a game and resolves shots with Fire.
//
// Usage:
//
//	rng := rand.New(rand.NewPCG(seed1, seed2))
//	match, err := engine.NewMatch(engine.ClassicRules(), rng)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := match.Fire(0, engine.Coord{Row: 3, Col: 4})
//	if errors.Is(err, engine.ErrNotYourTurn) {
//		// reject
//	}
//
// Game Rules:
//
// Slot 0 fires first and turns alternate after every resolved shot. A shot
// at an occupied opponent cell is a hit and scores one point; anything else,
// including coordinates off the grid, is a miss. A cell can be targeted once
// per player. The first player to hit every occupied cell of the opposing
// board wins. A match that is over accepts no further shots.
package engine
