package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/broadside/game/engine"
	"github.com/wricardo/broadside/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound messages buffered per client before it is dropped as slow.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers load the page from the same server or through a tunnel
		return true
	},
}

// Message is the JSON envelope written to clients
type Message struct {
	Event     service.EventType `json:"event"`
	SessionID string            `json:"session_id,omitempty"`
	Data      any               `json:"data,omitempty"`
}

// Request is a JSON message read from a client. Row and Col are pointers so a
// fire request without coordinates can be told apart from a shot at (0,0).
type Request struct {
	Event     service.EventType `json:"event"`
	SessionID string            `json:"session_id,omitempty"`
	Name      string            `json:"name,omitempty"`
	Row       *int              `json:"row,omitempty"`
	Col       *int              `json:"col,omitempty"`
}

// Client is one connected participant
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// ID returns the participant id assigned at connect time
func (c *Client) ID() string {
	return c.id
}

type inbound struct {
	client  *Client
	payload []byte
}

// Hub owns every connection and serializes all traffic into the game service.
// Requests are handled one at a time in Run, so the service never sees two
// requests interleave.
type Hub struct {
	service service.GameService

	// Registered clients by participant ID
	clients map[string]*Client

	// Raw messages read from clients
	inbound chan inbound

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	done      chan struct{}
	connected atomic.Int64
	newID     func() string
}

// NewHub creates a new WebSocket hub in front of svc
func NewHub(svc service.GameService) *Hub {
	return &Hub{
		service:    svc,
		clients:    make(map[string]*Client),
		inbound:    make(chan inbound),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		newID:      uuid.NewString,
	}
}

// Run starts the hub's event loop and blocks until ctx is cancelled. Every
// client still connected at that point is closed.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for _, client := range h.clients {
			h.removeClient(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(ctx, client)

		case client := <-h.unregister:
			h.unregisterClient(ctx, client)

		case msg := <-h.inbound:
			h.handleRequest(ctx, msg.client, msg.payload)
		}
	}
}

// ClientCount returns the number of open connections
func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}

// ServeWS upgrades the request and registers the connection as a new
// participant
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   h.newID(),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// registerClient adds a client and greets it with its participant identity
func (h *Hub) registerClient(ctx context.Context, client *Client) {
	h.clients[client.id] = client
	h.connected.Add(1)

	log.Printf("Client %s connected (total clients: %d)", client.id, len(h.clients))

	h.deliver(ctx, h.service.Connect(ctx, client.id))
}

// unregisterClient removes a client and reports the disconnect to the service
func (h *Hub) unregisterClient(ctx context.Context, client *Client) {
	if h.clients[client.id] != client {
		return
	}
	h.removeClient(client)

	log.Printf("Client %s disconnected (remaining clients: %d)", client.id, len(h.clients))

	h.deliver(ctx, h.service.Disconnect(ctx, client.id))
}

func (h *Hub) removeClient(client *Client) {
	delete(h.clients, client.id)
	close(client.send)
	h.connected.Add(-1)
}

// handleRequest decodes one client message and dispatches it to the service
func (h *Hub) handleRequest(ctx context.Context, client *Client, payload []byte) {
	if h.clients[client.id] != client {
		return
	}

	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.reject(ctx, client, "", "malformed message")
		return
	}

	switch req.Event {
	case service.RequestSetName:
		h.deliver(ctx, h.service.SetName(ctx, client.id, req.Name))

	case service.RequestJoinQueue:
		events, err := h.service.Join(ctx, client.id)
		if err != nil {
			log.Printf("Join failed for %s: %v", client.id, err)
		}
		h.deliver(ctx, events)

	case service.RequestFire:
		if req.SessionID == "" || req.Row == nil || req.Col == nil {
			h.reject(ctx, client, req.SessionID, "fire requires session_id, row and col")
			return
		}
		target := engine.Coord{Row: *req.Row, Col: *req.Col}
		h.deliver(ctx, h.service.Fire(ctx, client.id, req.SessionID, target))

	default:
		h.reject(ctx, client, req.SessionID, "unknown event")
	}
}

func (h *Hub) reject(ctx context.Context, client *Client, sessionID, reason string) {
	h.deliver(ctx, []service.Event{{
		Type:       service.EventRejected,
		SessionID:  sessionID,
		Recipients: []string{client.id},
		Data:       service.StatusData{Message: reason},
	}})
}

// deliver writes each event to its recipients in order. Recipients that are
// no longer connected are skipped. A client whose buffer is full is dropped
// after the whole batch has been written, which forfeits its session.
func (h *Hub) deliver(ctx context.Context, events []service.Event) {
	var slow []*Client

	for _, event := range events {
		data, err := json.Marshal(Message{
			Event:     event.Type,
			SessionID: event.SessionID,
			Data:      event.Data,
		})
		if err != nil {
			log.Printf("Failed to marshal %s message: %v", event.Type, err)
			continue
		}

		for _, id := range event.Recipients {
			client, ok := h.clients[id]
			if !ok {
				continue
			}
			select {
			case client.send <- data:
			default:
				slow = append(slow, client)
			}
		}
	}

	for _, client := range slow {
		h.unregisterClient(ctx, client)
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		select {
		case c.hub.inbound <- inbound{client: c, payload: payload}:
		case <-c.hub.done:
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection. Each
// message goes out as its own text frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
