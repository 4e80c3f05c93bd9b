// Package api provides the HTTP surface of the Broadside server.
//
// Gameplay itself runs over the WebSocket at /ws. The REST endpoints are
// read-only views for dashboards, the MCP tools and operators:
//
//   - GET /api/health - liveness and connected client count
//   - GET /api/rules - rules every match in this process uses
//   - GET /api/configs - rules presets found in the config directory
//   - GET /api/sessions - live sessions, ?limit=N
//   - GET /api/sessions/{id} - one live session
//   - GET /api/queue - waiting participants and live session count
//   - GET /api/qr - PNG join code for the lobby, ?url= and ?size=
//
// Session views carry scores, shot counts and remaining cells only. Ship
// placements never leave the server through this package.
//
// Errors are returned as JSON with an appropriate status code:
//
//	{"error": "session not found: session not found"}
//
// Usage:
//
//	server := api.NewServer(gameService, hub, "./static")
//	http.ListenAndServe(":8080", server)
package api
