// Package service provides the coordinating layer for Broadside.
//
// The service package implements:
//   - Participant registration and display names
//   - Matchmaking through an injected waiting queue
//   - Session creation with private layouts per participant
//   - Fire resolution, scoring and victory
//   - Disconnect handling as a forfeit
//
// Core Interfaces:
//
// GameService is the main service interface. Its mutating operations return
// the outbound events the transport must deliver; the service never touches a
// connection itself. SessionManager is the live-session registry, Matchmaker
// the waiting queue and ConfigManager the rules preset source.
//
// Architecture:
//
// The service owns no global state. The registry, queue and rules are
// injected, so tests build isolated instances. Each request holds the service
// lock from validation to event construction, which keeps turn ownership and
// pairing exactly-once without cooperation from the transport.
//
// Usage:
//
//	sessions := session.NewManager(logger)
//	queue := matchmaking.NewQueue()
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, queue, configs, nil, service.WithLogger(logger))
//
//	events := svc.Connect(ctx, "p1")
//	events, err := svc.Join(ctx, "p1")
//	events = svc.Fire(ctx, "p1", sessionID, engine.Coord{Row: 3, Col: 4})
//	events = svc.Disconnect(ctx, "p1")
//
// Events:
//
// Broadcast events are addressed to both members of a session, unicast events
// to one participant. Ship placements only ever travel in unicast
// your-layout events to their owner.
package service
