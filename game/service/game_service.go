package service

import (
	"context"
	"time"

	"github.com/wricardo/broadside/game/engine"
)

// GameService defines all game-related operations. Every mutating call runs
// to completion, state change and outbound events together, before the next
// one starts. The returned events are for the transport to deliver.
type GameService interface {
	// Participant lifecycle
	Connect(ctx context.Context, participantID string) []Event
	SetName(ctx context.Context, participantID, name string) []Event
	Disconnect(ctx context.Context, participantID string) []Event

	// Game Operations
	Join(ctx context.Context, participantID string) ([]Event, error)
	Fire(ctx context.Context, participantID, sessionID string, target engine.Coord) []Event

	// Read-only views
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	QueueStatus(ctx context.Context) (*QueueInfo, error)

	// Configuration
	Rules(ctx context.Context) *engine.Rules
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
}

// SessionManager defines live-session registry operations
type SessionManager interface {
	Create(id string, players [engine.SlotCount]Participant, match *engine.Match) (*Session, error)
	Get(id string) (*Session, error)
	FindByParticipant(participantID string) (*Session, error)
	List() []*Session
	Delete(id string) error
	Count() int
}

// Matchmaker defines the waiting queue operations
type Matchmaker interface {
	// Enqueue adds a participant and, once two are waiting, removes and
	// returns the two oldest entries with paired set to true.
	Enqueue(p Participant) (pair [engine.SlotCount]Participant, paired bool, err error)
	Dequeue(participantID string) bool
	Contains(participantID string) bool
	Len() int
}

// ConfigManager handles rules preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Rules, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.Rules
}

// Participant is a connected client identity and its display name
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session represents a live match between two participants
type Session struct {
	ID             string
	Players        [engine.SlotCount]Participant
	Match          *engine.Match
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// SlotOf returns the slot held by participantID
func (s *Session) SlotOf(participantID string) (int, bool) {
	for slot, p := range s.Players {
		if p.ID == participantID {
			return slot, true
		}
	}
	return -1, false
}

// PlayerIDs returns the participant ids in slot order
func (s *Session) PlayerIDs() []string {
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		ids = append(ids, p.ID)
	}
	return ids
}
