package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/wricardo/broadside/game/engine"
)

var ErrUnknownParticipant = errors.New("unknown participant")

// MaxNameLength caps display names, in runes
const MaxNameLength = 24

// Rejection reasons reported to the offending participant
const (
	ReasonUnknownSession = "game not found"
	ReasonNotMember      = "you are not in this game"
	ReasonNotYourTurn    = "not your turn"
	ReasonAlreadyFired   = "already fired there"
	ReasonGameOver       = "game is over"
	ReasonAlreadyPlaying = "you are already in a game"
)

// globalRand uses the auto-seeded math/rand/v2 source
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Option configures the game service
type Option func(*gameServiceImpl)

// WithRand sets the randomness used for board generation
func WithRand(rng engine.Rand) Option {
	return func(s *gameServiceImpl) { s.rng = rng }
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *gameServiceImpl) { s.logger = logger }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) { s.now = now }
}

// gameServiceImpl implements the GameService interface. A single mutex spans
// each request so queue, registry and match changes are never interleaved.
type gameServiceImpl struct {
	sessions SessionManager
	queue    Matchmaker
	configs  ConfigManager
	rules    *engine.Rules
	rng      engine.Rand
	logger   *slog.Logger
	now      func() time.Time
	names    map[string]string
	mu       sync.Mutex
}

// NewGameService creates a new game service instance. A nil rules value
// selects the config manager's default preset.
func NewGameService(sessions SessionManager, queue Matchmaker, configs ConfigManager, rules *engine.Rules, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		queue:    queue,
		configs:  configs,
		rules:    rules,
		rng:      globalRand{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		names:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rules == nil && configs != nil {
		s.rules = configs.GetDefault()
	}
	if s.rules == nil {
		s.rules = engine.ClassicRules()
	}
	return s
}

// Connect registers a participant with a default display name
func (s *gameServiceImpl) Connect(ctx context.Context, participantID string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := defaultName(participantID)
	s.names[participantID] = name

	return []Event{unicast(participantID, EventConnected, ConnectedData{
		ParticipantID: participantID,
		Name:          name,
	})}
}

// SetName updates a participant's display name. Blank names fall back to the
// default derived from the participant id.
func (s *gameServiceImpl) SetName(ctx context.Context, participantID, name string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.names[participantID] = normalizeName(participantID, name)
	return nil
}

// Join enqueues the participant and starts a session once two are waiting
func (s *gameServiceImpl) Join(ctx context.Context, participantID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessions.FindByParticipant(participantID); err == nil {
		return []Event{reject(participantID, "", ReasonAlreadyPlaying)}, nil
	}

	participant := Participant{ID: participantID, Name: s.nameOf(participantID)}
	pair, paired, err := s.queue.Enqueue(participant)
	if err != nil {
		// Already queued: nothing changes
		return []Event{unicast(participantID, EventWaiting, StatusData{Message: "Already waiting for an opponent"})}, nil
	}
	if !paired {
		return []Event{unicast(participantID, EventWaiting, StatusData{Message: "Waiting for an opponent..."})}, nil
	}

	return s.startSession(pair)
}

// startSession builds boards for a freshly paired couple and announces the match
func (s *gameServiceImpl) startSession(pair [engine.SlotCount]Participant) ([]Event, error) {
	match, err := engine.NewMatch(s.rules, s.rng)
	if err == nil {
		var sess *Session
		sess, err = s.sessions.Create("", pair, match)
		if err == nil {
			return s.matchStartEvents(sess), nil
		}
	}

	s.logger.Error("match creation failed",
		"player0", pair[0].ID,
		"player1", pair[1].ID,
		"error", err)

	events := make([]Event, 0, len(pair))
	for _, p := range pair {
		events = append(events, unicast(p.ID, EventMatchAborted, StatusData{
			Message: "Could not start the match, please join again",
		}))
	}
	return events, fmt.Errorf("failed to create match: %w", err)
}

func (s *gameServiceImpl) matchStartEvents(sess *Session) []Event {
	match := sess.Match

	slots := make(map[string]int, len(sess.Players))
	var names [engine.SlotCount]string
	for slot, p := range sess.Players {
		slots[p.ID] = slot
		names[slot] = p.Name
	}

	events := []Event{broadcast(sess, EventMatchStart, MatchStartData{
		SessionID: sess.ID,
		Slots:     slots,
		GridSize:  match.Rules.GridSize,
		Fleet:     match.Rules.Fleet,
		Names:     names,
		Scores:    match.Scores,
	})}

	for slot, p := range sess.Players {
		ev := unicast(p.ID, EventYourLayout, LayoutData{Placement: match.Placements[slot]})
		ev.SessionID = sess.ID
		events = append(events, ev)
	}

	events = append(events, broadcast(sess, EventTurn, TurnData{Slot: match.Turn}))

	s.logger.Info("match started",
		"session_id", sess.ID,
		"player0", sess.Players[0].Name,
		"player1", sess.Players[1].Name)

	return events
}

// Fire resolves an attack. Every validation failure is reported only to the
// caller and leaves all state untouched.
func (s *gameServiceImpl) Fire(ctx context.Context, participantID, sessionID string, target engine.Coord) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return []Event{reject(participantID, sessionID, ReasonUnknownSession)}
	}
	if sess.Match.Over {
		return []Event{reject(participantID, sessionID, ReasonGameOver)}
	}

	slot, ok := sess.SlotOf(participantID)
	if !ok {
		return []Event{reject(participantID, sessionID, ReasonNotMember)}
	}

	result, err := sess.Match.Fire(slot, target)
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return []Event{reject(participantID, sessionID, ReasonNotYourTurn)}
	case errors.Is(err, engine.ErrAlreadyFired):
		return []Event{reject(participantID, sessionID, ReasonAlreadyFired)}
	case errors.Is(err, engine.ErrMatchOver):
		return []Event{reject(participantID, sessionID, ReasonGameOver)}
	case err != nil:
		return []Event{reject(participantID, sessionID, err.Error())}
	}

	sess.LastAccessedAt = s.now()

	var events []Event
	if result.Outcome == engine.Hit {
		events = append(events, broadcast(sess, EventScoreUpdate, ScoreData{Scores: result.Scores}))
	}
	events = append(events, broadcast(sess, EventFireResult, FireResultData{
		Slot:    slot,
		Row:     target.Row,
		Col:     target.Col,
		Outcome: result.Outcome,
	}))

	if result.GameOver {
		events = append(events, s.endSession(sess))
		return events
	}

	return append(events, broadcast(sess, EventTurn, TurnData{Slot: result.NextTurn}))
}

// Disconnect drops the participant from the queue and forfeits its live session
func (s *gameServiceImpl) Disconnect(ctx context.Context, participantID string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer delete(s.names, participantID)

	if s.queue.Dequeue(participantID) {
		s.logger.Info("left queue", "participant_id", participantID)
	}

	sess, err := s.sessions.FindByParticipant(participantID)
	if err != nil || sess.Match.Over {
		return nil
	}

	slot, _ := sess.SlotOf(participantID)
	if err := sess.Match.Forfeit(slot); err != nil {
		return nil
	}

	return []Event{s.endSession(sess)}
}

// endSession builds the game-over event for a finished match and removes the
// session from the live registry
func (s *gameServiceImpl) endSession(sess *Session) Event {
	match := sess.Match
	winner := match.Winner
	loser := engine.Opponent(winner)

	data := GameOverData{
		Winner:     winner,
		WinnerName: sess.Players[winner].Name,
		LoserName:  sess.Players[loser].Name,
		Scores:     match.Scores,
	}
	if match.Reason == engine.ReasonForfeit {
		data.Reason = engine.ReasonForfeit
	}

	if err := s.sessions.Delete(sess.ID); err != nil {
		s.logger.Warn("failed to remove finished session", "session_id", sess.ID, "error", err)
	}

	s.logger.Info("match over",
		"session_id", sess.ID,
		"winner", data.WinnerName,
		"reason", match.Reason,
		"scores", fmt.Sprintf("%d-%d", match.Scores[0], match.Scores[1]))

	return broadcast(sess, EventGameOver, data)
}

// ListSessions returns public views of every live session, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, toSessionInfo(sess))
	}
	return result, nil
}

// GetSession returns the public view of one live session
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return toSessionInfo(sess), nil
}

// QueueStatus reports the waiting queue and registry sizes
func (s *gameServiceImpl) QueueStatus(ctx context.Context) (*QueueInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &QueueInfo{
		Waiting:      s.queue.Len(),
		LiveSessions: s.sessions.Count(),
		Connected:    len(s.names),
	}, nil
}

// Rules returns the rules every match in this process uses
func (s *gameServiceImpl) Rules(ctx context.Context) *engine.Rules {
	return s.rules
}

// ListConfigs returns the available rules presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	if s.configs == nil {
		return nil, nil
	}
	return s.configs.ListConfigs()
}

func (s *gameServiceImpl) nameOf(participantID string) string {
	if name, ok := s.names[participantID]; ok {
		return name
	}
	return defaultName(participantID)
}

func toSessionInfo(sess *Session) *SessionInfo {
	match := sess.Match
	info := &SessionInfo{
		ID:             sess.ID,
		Scores:         match.Scores,
		Turn:           match.Turn,
		Over:           match.Over,
		GridSize:       match.Rules.GridSize,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
	}
	for slot, p := range sess.Players {
		info.Players[slot] = p.Name
		info.Shots[slot] = match.ShotCount(slot)
		info.Remaining[slot] = match.Remaining(slot)
	}
	return info
}

func defaultName(participantID string) string {
	short := participantID
	if len(short) > 4 {
		short = short[:4]
	}
	return "Player-" + short
}

func normalizeName(participantID, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName(participantID)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}

func unicast(participantID string, eventType EventType, data any) Event {
	return Event{
		Type:       eventType,
		Recipients: []string{participantID},
		Data:       data,
	}
}

func reject(participantID, sessionID, reason string) Event {
	ev := unicast(participantID, EventRejected, StatusData{Message: reason})
	ev.SessionID = sessionID
	return ev
}

func broadcast(sess *Session, eventType EventType, data any) Event {
	return Event{
		Type:       eventType,
		SessionID:  sess.ID,
		Recipients: sess.PlayerIDs(),
		Broadcast:  true,
		Data:       data,
	}
}
