package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/broadside/game/engine"
	"github.com/wricardo/broadside/game/service"
	ws "github.com/wricardo/broadside/transport/websocket"
)

var ErrConnectionClosed = errors.New("connection closed by server")

// envelope is an outbound server message with the payload left raw
type envelope struct {
	Event     service.EventType `json:"event"`
	SessionID string            `json:"session_id"`
	Data      json.RawMessage   `json:"data"`
}

// Result is the outcome of one finished match
type Result struct {
	SessionID string
	Opponent  string
	Won       bool
	Reason    string
	Shots     int
	Scores    [engine.SlotCount]int
}

// Bot plays Broadside over the WebSocket like any browser client would
type Bot struct {
	URL     string
	Name    string
	Games   int
	Delay   time.Duration
	Verbose bool
	Rand    *rand.Rand

	conn     *websocket.Conn
	id       string
	slot     int
	session  string
	opponent string
	strategy *Strategy
	results  []Result
}

// NewBot creates a bot for the server at baseURL (http, https, ws or wss)
func NewBot(baseURL, name string, games int) *Bot {
	return &Bot{
		URL:   baseURL,
		Name:  name,
		Games: games,
		Rand:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// wsURL converts the server URL to the /ws endpoint
func wsURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path += "/ws"
	}
	return u.String(), nil
}

// Run connects, plays Games matches and returns their results
func (b *Bot) Run(ctx context.Context) ([]Result, error) {
	target, err := wsURL(b.URL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	b.conn = conn
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for len(b.results) < b.Games {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return b.results, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return b.results, ErrConnectionClosed
			}
			return b.results, fmt.Errorf("read: %w", err)
		}

		if err := b.handle(ctx, msg); err != nil {
			return b.results, err
		}
	}

	return b.results, nil
}

func (b *Bot) handle(ctx context.Context, msg envelope) error {
	switch msg.Event {
	case service.EventConnected:
		var data service.ConnectedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return err
		}
		b.id = data.ParticipantID
		if b.Name != "" {
			if err := b.send(ws.Request{Event: service.RequestSetName, Name: b.Name}); err != nil {
				return err
			}
		}
		return b.send(ws.Request{Event: service.RequestJoinQueue})

	case service.EventMatchStart:
		var data service.MatchStartData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return err
		}
		b.session = data.SessionID
		b.slot = data.Slots[b.id]
		b.opponent = data.Names[engine.Opponent(b.slot)]
		b.strategy = NewStrategy(data.GridSize, b.Rand)
		b.logf("match %s against %s, slot %d", b.session, b.opponent, b.slot)

	case service.EventTurn:
		var data service.TurnData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return err
		}
		if data.Slot != b.slot || b.strategy == nil {
			return nil
		}
		return b.fire(ctx)

	case service.EventFireResult:
		var data service.FireResultData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return err
		}
		if data.Slot == b.slot && b.strategy != nil {
			b.strategy.Record(engine.Coord{Row: data.Row, Col: data.Col}, data.Outcome)
		}

	case service.EventGameOver:
		var data service.GameOverData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return err
		}
		result := Result{
			SessionID: msg.SessionID,
			Opponent:  b.opponent,
			Won:       data.Winner == b.slot,
			Reason:    data.Reason,
			Scores:    data.Scores,
		}
		if b.strategy != nil {
			result.Shots = b.strategy.Shots()
		}
		b.results = append(b.results, result)
		b.strategy = nil
		b.logf("match %s over: won=%v scores=%v", msg.SessionID, result.Won, data.Scores)

		if len(b.results) < b.Games {
			return b.send(ws.Request{Event: service.RequestJoinQueue})
		}

	case service.EventMatchAborted:
		b.logf("match aborted, joining again")
		return b.send(ws.Request{Event: service.RequestJoinQueue})

	case service.EventRejected:
		var data service.StatusData
		json.Unmarshal(msg.Data, &data)
		b.logf("rejected: %s", data.Message)
	}

	return nil
}

func (b *Bot) fire(ctx context.Context) error {
	target, ok := b.strategy.Next()
	if !ok {
		return fmt.Errorf("no untried cells left in session %s", b.session)
	}

	if b.Delay > 0 {
		select {
		case <-time.After(b.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	row, col := target.Row, target.Col
	return b.send(ws.Request{
		Event:     service.RequestFire,
		SessionID: b.session,
		Row:       &row,
		Col:       &col,
	})
}

func (b *Bot) send(req ws.Request) error {
	return b.conn.WriteJSON(req)
}

func (b *Bot) logf(format string, args ...interface{}) {
	if b.Verbose {
		log.Printf("[%s] "+format, append([]interface{}{b.Name}, args...)...)
	}
}
