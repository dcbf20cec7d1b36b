// internal/game/types.go
//
// Core type definitions for the Rights & Duties matching engine.
// Defines:
//   - Right / Duty / Distractor / Pair: the static answer key of a level.
//   - Level: an immutable puzzle definition loaded from content.
//   - Match: an accepted (right, duty) association during a session.
//   - LevelProgress / GameSettings: persisted records owned by the progress store.

package game

import (
	"errors"
	"fmt"
)

// Difficulty is the authored difficulty of a level (also a player setting).
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// TextSize is the player's preferred reading size.
type TextSize string

const (
	TextSmall  TextSize = "small"
	TextMedium TextSize = "medium"
	TextLarge  TextSize = "large"
)

// Valid reports whether s is one of the known text sizes.
func (s TextSize) Valid() bool {
	switch s {
	case TextSmall, TextMedium, TextLarge:
		return true
	}
	return false
}

// Right is a constitutional entitlement shown as a selectable item.
type Right struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Article string `json:"article,omitempty" yaml:"article,omitempty"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Duty is a constitutional obligation; the counterpart of exactly one Right in a level.
type Duty struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Distractor is a duty-shaped decoy with no correct pairing.
type Distractor = Duty

// Pair is one answer-key entry of a level.
type Pair struct {
	Right       Right  `json:"right" yaml:"right"`
	Duty        Duty   `json:"duty" yaml:"duty"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Level is a bounded puzzle instance. Levels are never mutated after loading.
type Level struct {
	ID          int          `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Difficulty  Difficulty   `json:"difficulty" yaml:"difficulty"`
	Pairs       []Pair       `json:"pairs" yaml:"pairs"`
	Distractors []Distractor `json:"distractors,omitempty" yaml:"distractors,omitempty"`
	TimeLimit   *int         `json:"timeLimit" yaml:"time_limit"` // seconds; nil = untimed
	Hints       int          `json:"hints" yaml:"hints"`
}

// BaseScore is the par score used for star ratings (pairs × CorrectMatch).
func (l Level) BaseScore() int { return len(l.Pairs) * scoreCorrect }

// Match is a player-accepted pairing.
type Match struct {
	RightID string `json:"rightId"`
	DutyID  string `json:"dutyId"`
}

// LevelProgress is the persistent record kept per level.
type LevelProgress struct {
	LevelID   int  `json:"levelId"`
	Completed bool `json:"completed"`
	Stars     int  `json:"stars"`     // 0..3
	BestScore int  `json:"bestScore"` // >= 0
	Unlocked  bool `json:"unlocked"`
}

// GameSettings is the single global settings record.
type GameSettings struct {
	SoundEnabled bool       `json:"soundEnabled"`
	Difficulty   Difficulty `json:"difficulty"`
	TextSize     TextSize   `json:"textSize"`
	Language     string     `json:"language"`
}

// Validate checks the enumerated fields of a settings record.
func (s GameSettings) Validate() error {
	if !s.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", s.Difficulty)
	}
	if !s.TextSize.Valid() {
		return fmt.Errorf("unknown text size %q", s.TextSize)
	}
	if s.Language == "" {
		return errors.New("language is required")
	}
	return nil
}

// DefaultSettings is returned on first read before anything was saved.
func DefaultSettings() GameSettings {
	return GameSettings{
		SoundEnabled: true,
		Difficulty:   DifficultyEasy,
		TextSize:     TextMedium,
		Language:     "en",
	}
}
