package session

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/broadside/game/engine"
	"github.com/wricardo/broadside/game/service"
)

func createTestMatch(t *testing.T) *engine.Match {
	t.Helper()
	match, err := engine.NewMatch(engine.ClassicRules(), rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	return match
}

func pair(a, b string) [engine.SlotCount]service.Participant {
	return [engine.SlotCount]service.Participant{{ID: a, Name: a}, {ID: b, Name: b}}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager(nil)

	t.Run("create with generated ID", func(t *testing.T) {
		session, err := manager.Create("", pair("p1", "p2"), createTestMatch(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 8 {
			t.Errorf("Expected 8-character ID, got %q", session.ID)
		}
		if session.CreatedAt.IsZero() || session.LastAccessedAt.IsZero() {
			t.Error("Expected timestamps to be set")
		}
		if session.Players[0].ID != "p1" || session.Players[1].ID != "p2" {
			t.Errorf("Players not kept in slot order: %+v", session.Players)
		}
	})

	t.Run("create with specific ID", func(t *testing.T) {
		session, err := manager.Create("duel-1", pair("p3", "p4"), createTestMatch(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "duel-1" {
			t.Errorf("Expected ID duel-1, got %s", session.ID)
		}
	})

	t.Run("duplicate ID", func(t *testing.T) {
		_, err := manager.Create("DUEL-1", pair("p5", "p6"), createTestMatch(t))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("participant already in a session", func(t *testing.T) {
		_, err := manager.Create("", pair("p1", "p7"), createTestMatch(t))
		if err != ErrParticipantBusy {
			t.Errorf("Expected ErrParticipantBusy, got %v", err)
		}
	})

	t.Run("invalid sessions", func(t *testing.T) {
		if _, err := manager.Create("", pair("x", "x"), createTestMatch(t)); err != ErrInvalidSession {
			t.Errorf("Expected ErrInvalidSession for same participant twice, got %v", err)
		}
		if _, err := manager.Create("", pair("x", ""), createTestMatch(t)); err != ErrInvalidSession {
			t.Errorf("Expected ErrInvalidSession for empty participant, got %v", err)
		}
		if _, err := manager.Create("", pair("x", "y"), nil); err != ErrInvalidSession {
			t.Errorf("Expected ErrInvalidSession for nil match, got %v", err)
		}
	})

	if manager.Count() != 2 {
		t.Errorf("Expected 2 live sessions, got %d", manager.Count())
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager(nil)
	created, _ := manager.Create("AbCd", pair("p1", "p2"), createTestMatch(t))

	t.Run("case-insensitive lookup", func(t *testing.T) {
		for _, id := range []string{"AbCd", "abcd", "ABCD"} {
			session, err := manager.Get(id)
			if err != nil {
				t.Fatalf("Get(%q) failed: %v", id, err)
			}
			if session != created {
				t.Errorf("Get(%q) returned a different session", id)
			}
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := manager.Get("nope"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_FindByParticipant(t *testing.T) {
	manager := NewManager(nil)
	created, _ := manager.Create("", pair("p1", "p2"), createTestMatch(t))

	for _, id := range []string{"p1", "p2"} {
		session, err := manager.FindByParticipant(id)
		if err != nil {
			t.Fatalf("FindByParticipant(%q) failed: %v", id, err)
		}
		if session != created {
			t.Errorf("FindByParticipant(%q) returned a different session", id)
		}
	}

	if _, err := manager.FindByParticipant("p3"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager(nil)

	t.Run("delete releases participants", func(t *testing.T) {
		session, _ := manager.Create("", pair("p1", "p2"), createTestMatch(t))

		if err := manager.Delete(strings.ToUpper(session.ID)); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get(session.ID); err != ErrSessionNotFound {
			t.Error("Session should not exist after deletion")
		}
		if _, err := manager.FindByParticipant("p1"); err != ErrSessionNotFound {
			t.Error("Participant should be released after deletion")
		}

		// Both may be paired again
		if _, err := manager.Create("", pair("p2", "p1"), createTestMatch(t)); err != nil {
			t.Errorf("Expected participants to be reusable, got %v", err)
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("missing"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager(nil)

	if len(manager.List()) != 0 {
		t.Error("Expected empty list")
	}

	for i := 0; i < 3; i++ {
		a, b := fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i)
		if _, err := manager.Create("", pair(a, b), createTestMatch(t)); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager(nil)
	rules := engine.ClassicRules()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			match, err := engine.NewMatch(rules, rand.New(rand.NewPCG(uint64(id), 9)))
			if err != nil {
				errs <- err
				return
			}
			a, b := fmt.Sprintf("a%d", id), fmt.Sprintf("b%d", id)
			session, err := manager.Create("", pair(a, b), match)
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(session.ID); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 100 {
		t.Errorf("Expected 100 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager(nil)

	session1, _ := manager.Create("iso-1", pair("p1", "p2"), createTestMatch(t))
	session2, _ := manager.Create("iso-2", pair("p3", "p4"), createTestMatch(t))

	target := session1.Match.Boards[1].OccupiedCells()[0]
	if _, err := session1.Match.Fire(0, target); err != nil {
		t.Fatalf("Fire failed: %v", err)
	}

	if session2.Match.ShotCount(0) != 0 || session2.Match.Turn != 0 {
		t.Error("Session 2 should not be affected by session 1 shots")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager(nil)
	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		a, b := fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i)
		session, err := manager.Create("", pair(a, b), createTestMatch(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true
	}
}
