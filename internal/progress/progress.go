// internal/progress/progress.go
//
// Durable player progress: per-level completion/star/best-score records, the
// global settings record, and per-level leaderboards.
//
// Contract shared by every backend (memory, sqlite, redis, postgres):
//   - GetProgress synthesizes and persists level 1 (unlocked) on first read.
//   - RecordLevelOutcome is the sole unlock mechanism: completing level N
//     unlocks level N+1 and nothing else.
//   - ResetProgress clears level records and leaderboards, never settings.
//   - Writes for one player are expected to be serialized by the caller.

package progress

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/robalobadob/rightsquest/internal/game"
)

// Store defines the persistence interface for player progress.
type Store interface {
	// GetProgress returns every level record keyed by level id.
	GetProgress(ctx context.Context) (map[int]game.LevelProgress, error)

	// RecordLevelOutcome merges o into the record for levelID and, when
	// o.Completed, ensures levelID+1 exists and is unlocked.
	RecordLevelOutcome(ctx context.Context, levelID int, o Outcome) error

	// GetSettings returns the saved settings or game.DefaultSettings.
	GetSettings(ctx context.Context) (game.GameSettings, error)

	// SaveSettings replaces the settings record.
	SaveSettings(ctx context.Context, s game.GameSettings) error

	// ResetProgress clears level records and leaderboards.
	ResetProgress(ctx context.Context) error

	// AddScore appends a leaderboard entry.
	AddScore(ctx context.Context, e ScoreEntry) error

	// TopScores returns the best entries for a level (limit <= 0 → 20).
	TopScores(ctx context.Context, levelID, limit int) ([]ScoreEntry, error)

	Close() error
}

// Outcome is the set of fields merged into a level record.
type Outcome struct {
	Completed bool `json:"completed"`
	Stars     int  `json:"stars"`
	BestScore int  `json:"bestScore"`
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	LevelID   int       `json:"levelId"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Stars     int       `json:"stars"`
	ElapsedMs int       `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

const defaultTopLimit = 20

// ErrUnknownEngine is returned by Open for an unsupported PROGRESS_ENGINE.
var ErrUnknownEngine = errors.New("unsupported progress engine")

// FirstLevel is the record synthesized on first read.
func FirstLevel() game.LevelProgress {
	return game.LevelProgress{LevelID: 1, Unlocked: true}
}

// Improve turns a fresh completion into the outcome to record, keeping the
// better of the stored and the new stars/score.
func Improve(prev game.LevelProgress, res game.Outcome) Outcome {
	return Outcome{
		Completed: true,
		Stars:     max(prev.Stars, res.Stars),
		BestScore: max(prev.BestScore, res.FinalScore),
	}
}

// newRecord returns the default record for a level that has none yet.
func newRecord(levelID int) game.LevelProgress {
	return game.LevelProgress{LevelID: levelID, Unlocked: levelID == 1}
}

// applyOutcome merges o into m in place. Used by backends that keep the whole
// progress map as one value.
func applyOutcome(m map[int]game.LevelProgress, levelID int, o Outcome) {
	rec, ok := m[levelID]
	if !ok {
		rec = newRecord(levelID)
	}
	rec.Completed = o.Completed
	rec.Stars = o.Stars
	rec.BestScore = o.BestScore
	if o.Completed {
		rec.Unlocked = true
	}
	m[levelID] = rec

	if !o.Completed {
		return
	}
	next, ok := m[levelID+1]
	if !ok {
		next = newRecord(levelID + 1)
	}
	next.Unlocked = true
	m[levelID+1] = next
}

// sortScores orders entries best first: score desc, elapsed asc, oldest first.
func sortScores(entries []ScoreEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ElapsedMs != b.ElapsedMs {
			return a.ElapsedMs < b.ElapsedMs
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func topLimit(limit int) int {
	if limit <= 0 {
		return defaultTopLimit
	}
	return limit
}
