// Package threads keeps per-conversation message history for the tutor
// chat in memory. Threads are seeded lazily with the tutor system prompt,
// evicted after an idle TTL, and capped so an abusive client cannot grow
// the map without bound.
package threads

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"kabyar/internal/domain/models"
	"kabyar/internal/prompt"

	"github.com/google/uuid"
)

const (
	defaultIdleTTL    = time.Hour
	defaultMaxThreads = 10000
)

type thread struct {
	messages []models.Message
	lastUsed time.Time
}

// Store is a concurrency-safe in-memory thread store.
type Store struct {
	mu         sync.Mutex
	threads    map[string]*thread
	idleTTL    time.Duration
	maxThreads int
	onEvict    func(threadID string)
}

// NewStore creates a store with the default TTL and capacity.
func NewStore() *Store {
	return &Store{
		threads:    make(map[string]*thread),
		idleTTL:    defaultIdleTTL,
		maxThreads: defaultMaxThreads,
	}
}

// OnEvict registers fn to be called with the id of every thread the
// store evicts, so per-thread state held elsewhere is released with the
// history. fn runs with the store lock held and must not call back into
// the store.
func (s *Store) OnEvict(fn func(threadID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = fn
}

// ensure returns the thread for id, creating and seeding it if absent.
// Caller must hold mu.
func (s *Store) ensure(id string) *thread {
	t, ok := s.threads[id]
	if !ok {
		if len(s.threads) >= s.maxThreads {
			s.evictOldest()
		}
		t = &thread{
			messages: []models.Message{{
				ID:      uuid.NewString(),
				Role:    models.RoleSystem,
				Content: prompt.TutorChat(),
			}},
		}
		s.threads[id] = t
	}
	t.lastUsed = time.Now()
	return t
}

// Append adds a message to the thread, creating the thread if needed,
// and returns the stored message with an id assigned.
func (s *Store) Append(threadID, role, content string) models.Message {
	return s.AppendWithID(threadID, "", role, content)
}

// AppendWithID adds a message carrying a caller-chosen id, so response
// ids assigned by the client survive into history. An empty id gets a
// generated one.
func (s *Store) AppendWithID(threadID, id, role, content string) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	msg := models.Message{
		ID:      id,
		Role:    role,
		Content: content,
	}
	t := s.ensure(threadID)
	t.messages = append(t.messages, msg)
	return msg
}

// History returns a copy of the thread's messages, seeding the thread if
// it does not exist yet.
func (s *Store) History(threadID string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.ensure(threadID)
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Delete removes the thread. It reports whether the thread existed.
func (s *Store) Delete(threadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.threads[threadID]
	delete(s.threads, threadID)
	return ok
}

// Len returns the number of live threads.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.threads)
}

// evictOldest drops the least-recently-used thread. Caller must hold mu.
func (s *Store) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, t := range s.threads {
		if oldestID == "" || t.lastUsed.Before(oldest) {
			oldestID = id
			oldest = t.lastUsed
		}
	}
	if oldestID != "" {
		delete(s.threads, oldestID)
		if s.onEvict != nil {
			s.onEvict(oldestID)
		}
	}
}

// sweep removes threads idle past the TTL and returns how many went.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, t := range s.threads {
		if now.Sub(t.lastUsed) > s.idleTTL {
			delete(s.threads, id)
			if s.onEvict != nil {
				s.onEvict(id)
			}
			removed++
		}
	}
	return removed
}

// StartCleanup launches a background sweeper that evicts idle threads
// until ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.sweep(time.Now()); n > 0 {
					slog.Debug("evicted idle threads", "count", n)
				}
			}
		}
	}()
}
