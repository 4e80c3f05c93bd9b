package matchmaking

import (
	"errors"
	"sync"

	"github.com/wricardo/broadside/game/engine"
	"github.com/wricardo/broadside/game/service"
)

var ErrAlreadyQueued = errors.New("participant already queued")

// Queue is a FIFO waiting list that pairs the two oldest entries as soon as
// two participants are waiting. A participant appears at most once.
type Queue struct {
	entries []service.Participant
	index   map[string]struct{}
	mu      sync.Mutex
}

// NewQueue creates an empty waiting queue
func NewQueue() *Queue {
	return &Queue{
		index: make(map[string]struct{}),
	}
}

// Enqueue appends p unless it is already waiting. When the queue then holds
// at least two entries, the two oldest are removed and returned in arrival
// order.
func (q *Queue) Enqueue(p service.Participant) ([engine.SlotCount]service.Participant, bool, error) {
	var pair [engine.SlotCount]service.Participant

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.index[p.ID]; exists {
		return pair, false, ErrAlreadyQueued
	}

	q.entries = append(q.entries, p)
	q.index[p.ID] = struct{}{}

	if len(q.entries) < engine.SlotCount {
		return pair, false, nil
	}

	copy(pair[:], q.entries[:engine.SlotCount])
	q.entries = append(q.entries[:0:0], q.entries[engine.SlotCount:]...)
	for _, paired := range pair {
		delete(q.index, paired.ID)
	}

	return pair, true, nil
}

// Dequeue removes a participant if present. It reports whether anything was
// removed and is safe to call repeatedly.
func (q *Queue) Dequeue(participantID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.index[participantID]; !exists {
		return false
	}

	for i, p := range q.entries {
		if p.ID == participantID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	delete(q.index, participantID)
	return true
}

// Contains reports whether the participant is waiting
func (q *Queue) Contains(participantID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, exists := q.index[participantID]
	return exists
}

// Len returns the number of waiting participants
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot returns the waiting participants in arrival order
func (q *Queue) Snapshot() []service.Participant {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]service.Participant, len(q.entries))
	copy(out, q.entries)
	return out
}
