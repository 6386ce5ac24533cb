package threads

import (
	"testing"
	"time"

	"kabyar/internal/domain/models"
	"kabyar/internal/relay"
)

func TestHistorySeedsSystemPrompt(t *testing.T) {
	s := NewStore()

	history := s.History("t1")
	if len(history) != 1 {
		t.Fatalf("new thread history length = %d, want 1", len(history))
	}
	if history[0].Role != models.RoleSystem {
		t.Errorf("seed role = %q, want system", history[0].Role)
	}
	if history[0].Content == "" {
		t.Error("seed system prompt is empty")
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	s := NewStore()

	s.Append("t1", models.RoleUser, "What is photosynthesis?")
	s.Append("t1", models.RoleAssistant, "Photosynthesis converts light into chemical energy.")
	s.Append("t1", models.RoleUser, "Why is it green?")

	history := s.History("t1")
	if len(history) != 4 {
		t.Fatalf("history length = %d, want 4 (seed + 3)", len(history))
	}
	wantRoles := []string{models.RoleSystem, models.RoleUser, models.RoleAssistant, models.RoleUser}
	for i, want := range wantRoles {
		if history[i].Role != want {
			t.Errorf("history[%d].Role = %q, want %q", i, history[i].Role, want)
		}
	}
	if history[3].Content != "Why is it green?" {
		t.Errorf("history[3].Content = %q", history[3].Content)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append("t1", models.RoleUser, "hi")

	history := s.History("t1")
	history[0].Content = "tampered"

	if got := s.History("t1")[0].Content; got == "tampered" {
		t.Error("mutating returned history changed the stored thread")
	}
}

func TestDelete(t *testing.T) {
	s := NewStore()
	s.Append("t1", models.RoleUser, "hi")

	if !s.Delete("t1") {
		t.Error("delete existing thread returned false")
	}
	if s.Delete("t1") {
		t.Error("delete missing thread returned true")
	}

	// A deleted thread id starts over with just the seed prompt.
	if got := len(s.History("t1")); got != 1 {
		t.Errorf("recreated thread history length = %d, want 1", got)
	}
}

func TestSweepEvictsIdleThreads(t *testing.T) {
	s := NewStore()
	s.idleTTL = time.Minute

	s.Append("stale", models.RoleUser, "hi")
	s.mu.Lock()
	s.threads["stale"].lastUsed = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()
	s.Append("fresh", models.RoleUser, "hi")

	if n := s.sweep(time.Now()); n != 1 {
		t.Errorf("sweep removed %d threads, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("store has %d threads after sweep, want 1", s.Len())
	}
	s.mu.Lock()
	_, staleAlive := s.threads["stale"]
	s.mu.Unlock()
	if staleAlive {
		t.Error("stale thread survived the sweep")
	}
}

func TestCapEvictsOldest(t *testing.T) {
	s := NewStore()
	s.maxThreads = 2

	s.Append("a", models.RoleUser, "1")
	s.mu.Lock()
	s.threads["a"].lastUsed = time.Now().Add(-time.Hour)
	s.mu.Unlock()
	s.Append("b", models.RoleUser, "2")
	s.Append("c", models.RoleUser, "3")

	if s.Len() != 2 {
		t.Fatalf("store has %d threads, want 2", s.Len())
	}
	s.mu.Lock()
	_, aAlive := s.threads["a"]
	s.mu.Unlock()
	if aAlive {
		t.Error("least recently used thread survived the cap eviction")
	}
}

func TestSweepNotifiesOnEvict(t *testing.T) {
	s := NewStore()
	s.idleTTL = time.Minute

	var evicted []string
	s.OnEvict(func(threadID string) { evicted = append(evicted, threadID) })

	s.Append("stale", models.RoleUser, "hi")
	s.mu.Lock()
	s.threads["stale"].lastUsed = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()
	s.Append("fresh", models.RoleUser, "hi")

	s.sweep(time.Now())
	if len(evicted) != 1 || evicted[0] != "stale" {
		t.Errorf("evicted = %v, want [stale]", evicted)
	}
}

func TestCapEvictionNotifiesOnEvict(t *testing.T) {
	s := NewStore()
	s.maxThreads = 1

	var evicted []string
	s.OnEvict(func(threadID string) { evicted = append(evicted, threadID) })

	s.Append("a", models.RoleUser, "1")
	s.Append("b", models.RoleUser, "2")

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("evicted = %v, want [a]", evicted)
	}
}

// A swept thread must take its relay session with it, or the session map
// grows without bound as threads cycle through the store.
func TestSweepReleasesRelaySessions(t *testing.T) {
	s := NewStore()
	s.idleTTL = time.Minute
	sessions := relay.NewManager()
	s.OnEvict(sessions.Remove)

	s.Append("t1", models.RoleUser, "hi")
	sessions.Session("t1")
	s.mu.Lock()
	s.threads["t1"].lastUsed = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	s.sweep(time.Now())
	if sessions.Stop("t1") {
		t.Error("relay session survived the thread sweep")
	}
}
