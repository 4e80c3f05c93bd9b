// Package websocket is the real-time transport for Broadside.
//
// Every connection is one participant. The hub assigns it a random id on
// upgrade, registers it with the game service and greets it with a connected
// event.
//
// Message Protocol:
//
// Incoming messages are JSON objects keyed by event:
//
//	{"event": "set-name", "name": "Ada"}
//	{"event": "join-queue"}
//	{"event": "fire", "session_id": "3fa9c1d2", "row": 3, "col": 7}
//
// Outgoing messages use one envelope, one message per text frame:
//
//	{"event": "fire-result", "session_id": "3fa9c1d2", "data": {...}}
//
// Anything the hub cannot decode is answered with a rejected-status event to
// the sender only.
//
// Concurrency:
//
// Register, unregister and inbound messages all funnel into Hub.Run, which
// handles them one at a time and writes the resulting events to the
// recipients' send buffers in order. A client whose buffer is full is
// disconnected, and a closed connection forfeits any live match.
//
// Usage:
//
//	hub := websocket.NewHub(gameService)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", hub.ServeWS)
package websocket
