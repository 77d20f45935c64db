package staircase

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Active pairs a running session with its owner. A handle is owned by exactly
// one user+test+eye flow; nothing is shared between the two eyes' sessions.
type Active struct {
	Session   *Session
	UserID    uint
	TestID    string
	Eye       Eye
	CreatedAt time.Time
}

// Manager is the in-memory registry of sessions that have been started but
// not yet finalized. Abandoned sessions are swept out unfinalized and never
// reported.
type Manager struct {
	mu     sync.Mutex
	active map[string]*Active
}

func NewManager() *Manager {
	return &Manager{active: make(map[string]*Active)}
}

// Put registers a session and returns its opaque handle.
func (m *Manager) Put(a *Active) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	m.active[id] = a
	return id
}

// Get looks up a session by handle.
func (m *Manager) Get(id string) (*Active, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.active[id]
	return a, ok
}

// Remove evicts a session and reports whether this call claimed it. Exactly
// one caller sees true per handle; when two requests race a session to
// termination, only the claimant may finalize and persist it.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[id]
	delete(m.active, id)
	return ok
}

// Len returns the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Sweep evicts sessions older than maxAge and returns how many were removed.
// A swept session is simply abandoned; no teardown is needed.
func (m *Manager) Sweep(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	for id, a := range m.active {
		if a.CreatedAt.Before(cutoff) {
			delete(m.active, id)
			removed++
		}
	}
	return removed
}
