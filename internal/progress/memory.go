// internal/progress/memory.go
//
// In-memory implementation of the progress Store.
// Used for development/testing, or when durability is not required.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/rightsquest/internal/game"
)

type memory struct {
	mu       sync.RWMutex
	levels   map[int]game.LevelProgress
	settings *game.GameSettings // nil until first save
	scores   map[int][]ScoreEntry
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		levels: make(map[int]game.LevelProgress),
		scores: make(map[int][]ScoreEntry),
	}
}

func (m *memory) GetProgress(ctx context.Context) (map[int]game.LevelProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.levels) == 0 {
		m.levels[1] = FirstLevel()
	}
	out := make(map[int]game.LevelProgress, len(m.levels))
	for k, v := range m.levels {
		out[k] = v
	}
	return out, nil
}

func (m *memory) RecordLevelOutcome(ctx context.Context, levelID int, o Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	applyOutcome(m.levels, levelID, o)
	return nil
}

func (m *memory) GetSettings(ctx context.Context) (game.GameSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return game.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *memory) SaveSettings(ctx context.Context, s game.GameSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

func (m *memory) ResetProgress(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = make(map[int]game.LevelProgress)
	m.scores = make(map[int][]ScoreEntry)
	return nil
}

func (m *memory) AddScore(ctx context.Context, e ScoreEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.scores[e.LevelID] = append(m.scores[e.LevelID], e)
	return nil
}

func (m *memory) TopScores(ctx context.Context, levelID, limit int) ([]ScoreEntry, error) {
	m.mu.RLock()
	out := append(make([]ScoreEntry, 0, len(m.scores[levelID])), m.scores[levelID]...)
	m.mu.RUnlock()

	sortScores(out)
	if n := topLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *memory) Close() error { return nil }
