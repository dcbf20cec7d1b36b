// internal/game/engine.go
//
// Stateless match predicates over a level's answer key.
// Responsibilities:
//   - Decide whether a proposed (right, duty) pairing is correct.
//   - Look up the explanation of a correct pairing.
//   - Detect level completion from the accepted-match count.
//   - Apply the acceptance rule before a candidate joins the accepted list.
//
// Notes:
//   - Lookups key by id, never by display position, so shuffled option order
//     cannot influence correctness.
//   - A level's pairs carry unique right ids and unique duty ids; membership
//     checks rely on that (levels.Validate enforces it at load time).
package game

import "math/rand"

// IsCorrectMatch reports whether some pair in pairs joins rightID with dutyID.
// Unknown ids and an empty pair list both yield false.
func IsCorrectMatch(rightID, dutyID string, pairs []Pair) bool {
	_, ok := findPair(rightID, dutyID, pairs)
	return ok
}

// PairExplanation returns the explanation of the pair joining rightID and dutyID.
// The second result is false when no pair matches or the matched pair has an
// empty explanation; an empty explanation is never returned as found.
func PairExplanation(rightID, dutyID string, pairs []Pair) (string, bool) {
	p, ok := findPair(rightID, dutyID, pairs)
	if !ok || p.Explanation == "" {
		return "", false
	}
	return p.Explanation, true
}

// AllPairsMatched is a count-based completion check: len(matches) >= totalPairs.
//
// It does not re-verify the matches. Callers must only ever append matches that
// passed CanAccept, which makes the count equivalent to true completion.
func AllPairsMatched(matches []Match, totalPairs int) bool {
	return len(matches) >= totalPairs
}

// Acceptance is the verdict of CanAccept for a candidate match.
type Acceptance int

const (
	// Accepted: correct and not yet used; append it.
	Accepted Acceptance = iota
	// Incorrect: not in the answer key; counts as an incorrect attempt.
	Incorrect
	// AlreadyMatched: the right or the duty is already used; no-op.
	AlreadyMatched
)

// String returns the wire name of the verdict.
func (a Acceptance) String() string {
	switch a {
	case Accepted:
		return "correct"
	case Incorrect:
		return "incorrect"
	case AlreadyMatched:
		return "already_matched"
	}
	return "unknown"
}

// CanAccept applies the acceptance rule to candidate against the accepted list.
// Correctness is checked first so a wrong pairing of an already-used right is
// still scored as an incorrect attempt.
func CanAccept(candidate Match, accepted []Match, pairs []Pair) Acceptance {
	if !IsCorrectMatch(candidate.RightID, candidate.DutyID, pairs) {
		return Incorrect
	}
	for _, m := range accepted {
		if m.RightID == candidate.RightID || m.DutyID == candidate.DutyID {
			return AlreadyMatched
		}
	}
	return Accepted
}

// findPair scans pairs for the entry joining rightID and dutyID.
func findPair(rightID, dutyID string, pairs []Pair) (Pair, bool) {
	for _, p := range pairs {
		if p.Right.ID == rightID && p.Duty.ID == dutyID {
			return p, true
		}
	}
	return Pair{}, false
}

// DutyOptions returns the level's duties and distractors in shuffled display
// order. Order is presentation only; matching keys by id.
func DutyOptions(l Level, rng *rand.Rand) []Duty {
	out := make([]Duty, 0, len(l.Pairs)+len(l.Distractors))
	for _, p := range l.Pairs {
		out = append(out, p.Duty)
	}
	out = append(out, l.Distractors...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Rights returns the level's rights in authored order.
func Rights(l Level) []Right {
	out := make([]Right, len(l.Pairs))
	for i, p := range l.Pairs {
		out[i] = p.Right
	}
	return out
}
