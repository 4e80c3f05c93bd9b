package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/broadside/game/engine"
	"github.com/wricardo/broadside/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrParticipantBusy      = errors.New("participant already in a live session")
	ErrInvalidSession       = errors.New("invalid session")
)

// maxIDAttempts bounds session id regeneration on collision
const maxIDAttempts = 16

// Manager is the live-session registry. It also indexes sessions by
// participant so each participant belongs to at most one live session.
type Manager struct {
	sessions      map[string]*service.Session
	byParticipant map[string]string
	logger        *slog.Logger
	mu            sync.RWMutex
}

// NewManager creates a new session manager. A nil logger discards output.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		sessions:      make(map[string]*service.Session),
		byParticipant: make(map[string]string),
		logger:        logger,
	}
}

// Create registers a session for two participants. An empty id is replaced
// by a generated one.
func (m *Manager) Create(id string, players [engine.SlotCount]service.Participant, match *engine.Match) (*service.Session, error) {
	if match == nil {
		return nil, ErrInvalidSession
	}
	if players[0].ID == "" || players[1].ID == "" || players[0].ID == players[1].ID {
		return nil, ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		generated, err := m.generateSessionID()
		if err != nil {
			return nil, err
		}
		id = generated
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	for _, p := range players {
		if _, busy := m.byParticipant[p.ID]; busy {
			return nil, ErrParticipantBusy
		}
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Players:        players,
		Match:          match,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	key := strings.ToLower(id)
	m.sessions[key] = session
	for _, p := range players {
		m.byParticipant[p.ID] = key
	}

	m.logger.Debug("session registered", "session_id", id, "live", len(m.sessions))

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// FindByParticipant returns the live session the participant belongs to
func (m *Manager) FindByParticipant(participantID string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, exists := m.byParticipant[participantID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return m.sessions[key], nil
}

// List returns all live sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session and releases its participants
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	session, exists := m.sessions[key]
	if !exists {
		return ErrSessionNotFound
	}

	delete(m.sessions, key)
	for _, p := range session.Players {
		if m.byParticipant[p.ID] == key {
			delete(m.byParticipant, p.ID)
		}
	}

	m.logger.Debug("session removed", "session_id", session.ID, "live", len(m.sessions))

	return nil
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 8-character session ID that is not in use
func (m *Manager) generateSessionID() (string, error) {
	bytes := make([]byte, 4)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if _, err := rand.Read(bytes); err != nil {
			return "", err
		}
		id := hex.EncodeToString(bytes)
		if !m.sessionExists(id) {
			return id, nil
		}
	}
	return "", ErrSessionAlreadyExists
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
