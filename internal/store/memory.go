// internal/store/memory.go
//
// In-memory store of live play sessions.
// Sessions are short-lived (one play-through) and are not persisted; only the
// level outcome is written to the progress store.
//
// Characteristics:
//   - Stores *Live sessions keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Delete stops the session's countdown so no tick fires after teardown.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for live sessions.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, l *Live) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*Live, error)

	// Delete removes a session and stops its clock. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep deletes sessions idle since before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len reports how many sessions are live.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex     // guards sessions map
	sessions map[string]*Live // keyed by session ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Live)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, l *Live) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[l.ID()] = l
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*Live, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.sessions[id]; ok {
		return l, nil
	}
	return nil, ErrNotFound
}

// Delete drops the session and stops its countdown.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	l, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		l.StopClock()
	}
	return nil
}

// Sweep drops sessions with no activity since cutoff (finished or abandoned).
// A long untimed game survives as long as the player keeps moving.
func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	var stale []*Live
	for id, l := range m.sessions {
		if l.LastActive().Before(cutoff) {
			stale = append(stale, l)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, l := range stale {
		l.StopClock()
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
