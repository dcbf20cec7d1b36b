// internal/game/scoring.go
//
// Deterministic score, star and hint arithmetic. No I/O, no randomness.
//
// Preconditions (caller bugs, not handled here):
//   - scores and remaining time are non-negative;
//   - baseScore is positive (zero-pair levels are rejected at load time).
package game

// EventKind names a scoring event.
type EventKind string

const (
	EventCorrectMatch     EventKind = "correct_match"
	EventIncorrectAttempt EventKind = "incorrect_attempt"
	EventHintUsed         EventKind = "hint_used"
)

const (
	scoreCorrect   = 100
	scoreIncorrect = -10
	scoreHint      = -50

	// bonus points per remaining second on timed levels
	timeBonusPerSecond = 2
)

// ScoreDelta returns the score change for an event. Unknown kinds are worth 0.
func ScoreDelta(kind EventKind) int {
	switch kind {
	case EventCorrectMatch:
		return scoreCorrect
	case EventIncorrectAttempt:
		return scoreIncorrect
	case EventHintUsed:
		return scoreHint
	}
	return 0
}

// ApplyDelta adds delta to score and clamps the result at 0.
func ApplyDelta(score, delta int) int {
	return max(score+delta, 0)
}

// HintCost is the flat price of one hint.
func HintCost() int { return -scoreHint }

// TimeBonus returns the completion bonus for the seconds left on the clock.
// Untimed levels (nil) earn nothing.
func TimeBonus(timeLeft *int) int {
	if timeLeft == nil || *timeLeft <= 0 {
		return 0
	}
	return *timeLeft * timeBonusPerSecond
}

// ComputeStars rates a completed level from 1 to 3.
//
//	final >= 90% of base → 3
//	final >= 70% of base → 2
//	otherwise            → 1
//
// Thresholds are compared in integer tenths so the boundaries are inclusive
// and exact.
func ComputeStars(finalScore, baseScore int) int {
	switch {
	case finalScore*10 >= baseScore*9:
		return 3
	case finalScore*10 >= baseScore*7:
		return 2
	default:
		return 1
	}
}

// Outcome is the composed result of a completed level.
type Outcome struct {
	FinalScore int `json:"finalScore"`
	Stars      int `json:"stars"`
}

// ComputeOutcome adds the time bonus to the running score and rates it
// against numPairs × CorrectMatch.
func ComputeOutcome(runningScore int, timeLeft *int, numPairs int) Outcome {
	final := runningScore + TimeBonus(timeLeft)
	return Outcome{
		FinalScore: final,
		Stars:      ComputeStars(final, numPairs*scoreCorrect),
	}
}
