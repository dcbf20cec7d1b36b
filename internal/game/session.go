// internal/game/session.go
//
// Play-session state for one run through a level.
// Responsibilities:
//   - Hold the level, accepted matches, running score, hint budget and clock.
//   - Apply player actions (propose a match, use a hint, clock tick) through the
//     pure engine and scoring rules.
//   - Track state transitions: playing → won / time_up.
//
// A Session is not safe for concurrent use; the owner serializes access.
package game

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// State is the coarse state of a session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateTimeUp  State = "time_up"
)

var (
	// ErrSessionOver is returned for actions on a finished session.
	ErrSessionOver = errors.New("session finished")
	// ErrNoHints is returned when the hint budget is spent.
	ErrNoHints = errors.New("no hints remaining")
)

// Session is the mutable state of one play-through.
type Session struct {
	ID             string    `json:"id"`
	Level          Level     `json:"-"`
	Matches        []Match   `json:"matches"`
	Score          int       `json:"score"`
	HintsRemaining int       `json:"hintsRemaining"`
	TimeLeft       *int      `json:"timeLeft"` // nil on untimed levels
	Attempts       int       `json:"attempts"` // incorrect attempts
	State          State     `json:"state"`
	StartedAt      time.Time `json:"startedAt"`
}

// NewSession starts a fresh session for level.
func NewSession(level Level) *Session {
	s := &Session{
		ID:             uuid.NewString(),
		Level:          level,
		Matches:        []Match{},
		HintsRemaining: level.Hints,
		State:          StatePlaying,
		StartedAt:      time.Now().UTC(),
	}
	if level.TimeLimit != nil {
		t := *level.TimeLimit
		s.TimeLeft = &t
	}
	return s
}

// MatchResult reports what a proposal did to the session.
type MatchResult struct {
	Result      Acceptance `json:"-"`
	Explanation string     `json:"explanation,omitempty"`
	Delta       int        `json:"delta"`
}

// Propose applies the acceptance rule to (rightID, dutyID) and scores it.
//
//	Accepted       → appended, +100, may finish the level
//	Incorrect      → not appended, -10 (clamped at 0)
//	AlreadyMatched → no change
func (s *Session) Propose(rightID, dutyID string) (MatchResult, error) {
	if s.State != StatePlaying {
		return MatchResult{}, ErrSessionOver
	}
	cand := Match{RightID: rightID, DutyID: dutyID}
	verdict := CanAccept(cand, s.Matches, s.Level.Pairs)
	res := MatchResult{Result: verdict}

	switch verdict {
	case Accepted:
		s.Matches = append(s.Matches, cand)
		res.Delta = s.addScore(EventCorrectMatch)
		res.Explanation, _ = PairExplanation(rightID, dutyID, s.Level.Pairs)
		s.checkComplete()
	case Incorrect:
		s.Attempts++
		res.Delta = s.addScore(EventIncorrectAttempt)
	}
	return res, nil
}

// UseHint auto-completes the first unmatched pair (in level order) at the
// hint cost. With no hints left the request is rejected without any change.
func (s *Session) UseHint() (Match, error) {
	if s.State != StatePlaying {
		return Match{}, ErrSessionOver
	}
	if s.HintsRemaining <= 0 {
		return Match{}, ErrNoHints
	}
	p, ok := s.nextUnmatched()
	if !ok {
		return Match{}, ErrSessionOver
	}
	m := Match{RightID: p.Right.ID, DutyID: p.Duty.ID}
	s.Matches = append(s.Matches, m)
	s.HintsRemaining--
	s.addScore(EventHintUsed)
	s.checkComplete()
	return m, nil
}

// Tick advances the clock by one second on timed levels.
// Reaching zero ends the session as time_up. Returns the resulting state.
func (s *Session) Tick() State {
	if s.State != StatePlaying || s.TimeLeft == nil {
		return s.State
	}
	if *s.TimeLeft > 0 {
		*s.TimeLeft--
	}
	if *s.TimeLeft == 0 {
		s.State = StateTimeUp
	}
	return s.State
}

// Outcome returns the final score and stars of a won session.
func (s *Session) Outcome() (Outcome, bool) {
	if s.State != StateWon {
		return Outcome{}, false
	}
	final := s.Score + TimeBonus(s.TimeLeft)
	return Outcome{FinalScore: final, Stars: ComputeStars(final, s.Level.BaseScore())}, true
}

// addScore applies the event delta with the zero clamp and returns the
// effective change.
func (s *Session) addScore(kind EventKind) int {
	before := s.Score
	s.Score = ApplyDelta(s.Score, ScoreDelta(kind))
	return s.Score - before
}

func (s *Session) checkComplete() {
	if AllPairsMatched(s.Matches, len(s.Level.Pairs)) {
		s.State = StateWon
	}
}

// nextUnmatched finds the first pair whose right and duty are both unused.
func (s *Session) nextUnmatched() (Pair, bool) {
	for _, p := range s.Level.Pairs {
		if CanAccept(Match{RightID: p.Right.ID, DutyID: p.Duty.ID}, s.Matches, s.Level.Pairs) == Accepted {
			return p, true
		}
	}
	return Pair{}, false
}
