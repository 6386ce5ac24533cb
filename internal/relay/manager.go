package relay

import "sync"

// Manager holds one Session per thread so that stop and send requests
// arriving on different connections coordinate through the same state.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Session returns the session for threadID, creating it if needed.
func (m *Manager) Session(threadID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[threadID]
	if !ok {
		s = NewSession()
		m.sessions[threadID] = s
	}
	return s
}

// Stop stops the in-flight generation for threadID, if any. It reports
// whether a session existed for the thread.
func (m *Manager) Stop(threadID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[threadID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	s.Stop()
	return true
}

// Remove forgets the session for threadID, stopping it first.
func (m *Manager) Remove(threadID string) {
	m.mu.Lock()
	s, ok := m.sessions[threadID]
	delete(m.sessions, threadID)
	m.mu.Unlock()
	if ok {
		s.Stop()
	}
}
