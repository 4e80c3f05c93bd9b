// Package mcp exposes a Broadside server to AI agents over the Model Context
// Protocol.
//
// The client is a thin proxy: each tool calls the read-only REST API and
// formats the answer as text. Tools:
//   - game_rules: grid size and fleet
//   - list_configs: rules presets
//   - list_sessions: live matches
//   - get_session: one live match
//   - queue_status: waiting participants
//   - game_instructions: rules and WebSocket protocol
//
// Playing a match is not exposed. Moves need a live WebSocket connection
// owned by the participant.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
