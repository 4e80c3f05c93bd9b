package service

import (
	"time"

	"github.com/wricardo/broadside/game/engine"
)

// EventType names a message crossing the transport boundary
type EventType string

// Client-originated requests
const (
	RequestSetName   EventType = "set-name"
	RequestJoinQueue EventType = "join-queue"
	RequestFire      EventType = "fire"
)

// Server-originated events
const (
	EventConnected    EventType = "connected"
	EventWaiting      EventType = "waiting-status"
	EventMatchStart   EventType = "match-start"
	EventYourLayout   EventType = "your-layout"
	EventTurn         EventType = "turn"
	EventRejected     EventType = "rejected-status"
	EventFireResult   EventType = "fire-result"
	EventScoreUpdate  EventType = "score-update"
	EventGameOver     EventType = "game-over"
	EventMatchAborted EventType = "match-aborted"
)

// Event is an outbound message with its resolved recipients. Broadcast events
// are addressed to every member of the session, unicast events to exactly one
// participant.
type Event struct {
	Type       EventType `json:"event"`
	SessionID  string    `json:"session_id,omitempty"`
	Recipients []string  `json:"-"`
	Broadcast  bool      `json:"-"`
	Data       any       `json:"data,omitempty"`
}

// ConnectedData is sent to a participant when its connection registers
type ConnectedData struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
}

// StatusData carries a human readable status line
type StatusData struct {
	Message string `json:"message"`
}

// MatchStartData announces a new session to both members
type MatchStartData struct {
	SessionID string                   `json:"session_id"`
	Slots     map[string]int           `json:"slots"`
	GridSize  int                      `json:"grid_size"`
	Fleet     engine.Fleet             `json:"fleet"`
	Names     [engine.SlotCount]string `json:"names"`
	Scores    [engine.SlotCount]int    `json:"scores"`
}

// LayoutData is the private ship placement of one participant
type LayoutData struct {
	Placement engine.Placement `json:"placement"`
}

// TurnData announces the slot that may fire next
type TurnData struct {
	Slot int `json:"slot"`
}

// FireResultData is the outcome of a resolved shot
type FireResultData struct {
	Slot    int            `json:"slot"`
	Row     int            `json:"row"`
	Col     int            `json:"col"`
	Outcome engine.Outcome `json:"outcome"`
}

// ScoreData carries both scores in slot order
type ScoreData struct {
	Scores [engine.SlotCount]int `json:"scores"`
}

// GameOverData ends a session
type GameOverData struct {
	Winner     int                   `json:"winner"`
	WinnerName string                `json:"winner_name"`
	LoserName  string                `json:"loser_name"`
	Scores     [engine.SlotCount]int `json:"scores"`
	Reason     string                `json:"reason,omitempty"`
}

// SessionInfo provides a public view of a live session. It never includes
// ship placements.
type SessionInfo struct {
	ID             string                   `json:"id"`
	Players        [engine.SlotCount]string `json:"players"`
	Scores         [engine.SlotCount]int    `json:"scores"`
	Shots          [engine.SlotCount]int    `json:"shots"`
	Remaining      [engine.SlotCount]int    `json:"remaining"`
	Turn           int                      `json:"turn"`
	Over           bool                     `json:"over"`
	GridSize       int                      `json:"grid_size"`
	CreatedAt      time.Time                `json:"created_at"`
	LastAccessedAt time.Time                `json:"last_accessed_at"`
}

// QueueInfo describes the waiting queue
type QueueInfo struct {
	Waiting      int `json:"waiting"`
	LiveSessions int `json:"live_sessions"`
	Connected    int `json:"connected"`
}

// ConfigInfo provides information about a rules preset
type ConfigInfo struct {
	Filename    string       `json:"filename,omitempty"`
	ConfigID    string       `json:"config_id"` // The identifier to pass to -rules
	Name        string       `json:"name"`      // Display name
	Description string       `json:"description"`
	GridSize    int          `json:"grid_size"`
	Fleet       engine.Fleet `json:"fleet"`
}
