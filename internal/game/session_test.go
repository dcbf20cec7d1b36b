package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestSessionFullRunWithTimeBonus(t *testing.T) {
	lvl := threePairLevel()
	s := NewSession(lvl)

	res, err := s.Propose("r-speech", "d-learn")
	if err != nil {
		t.Fatalf("Propose() error = %v", err)
	}
	if res.Result != Incorrect || s.Score != 0 || res.Delta != 0 {
		t.Fatalf("incorrect attempt: result=%v score=%d delta=%d", res.Result, s.Score, res.Delta)
	}

	wantScores := []int{100, 200, 300}
	for i, p := range lvl.Pairs {
		res, err := s.Propose(p.Right.ID, p.Duty.ID)
		if err != nil {
			t.Fatalf("Propose(%d) error = %v", i, err)
		}
		if res.Result != Accepted {
			t.Fatalf("Propose(%d) result = %v", i, res.Result)
		}
		if s.Score != wantScores[i] {
			t.Fatalf("score after pair %d = %d, want %d", i, s.Score, wantScores[i])
		}
		if i < 2 {
			// 130 seconds elapse while solving the first two pairs
			for k := 0; k < 65; k++ {
				s.Tick()
			}
		}
	}

	if s.State != StateWon {
		t.Fatalf("state = %s, want won", s.State)
	}
	if *s.TimeLeft != 50 {
		t.Fatalf("time left = %d, want 50", *s.TimeLeft)
	}
	out, ok := s.Outcome()
	if !ok {
		t.Fatal("Outcome() not available for a won session")
	}
	if out.FinalScore != 400 || out.Stars != 3 {
		t.Fatalf("Outcome() = %+v, want {400 3}", out)
	}
	if s.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", s.Attempts)
	}
}

func TestSessionExplanationReturnedOnAccept(t *testing.T) {
	s := NewSession(threePairLevel())
	res, _ := s.Propose("r-education", "d-learn")
	if res.Explanation == "" {
		t.Fatal("expected explanation for an accepted match")
	}
	res, _ = s.Propose("r-equality", "d-harmony")
	if res.Explanation != "" {
		t.Fatalf("expected empty explanation, got %q", res.Explanation)
	}
}

func TestSessionAlreadyMatchedIsNoop(t *testing.T) {
	s := NewSession(threePairLevel())
	if _, err := s.Propose("r-speech", "d-respect"); err != nil {
		t.Fatal(err)
	}
	res, err := s.Propose("r-speech", "d-respect")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != AlreadyMatched || s.Score != 100 || len(s.Matches) != 1 || s.Attempts != 0 {
		t.Fatalf("repeat changed state: result=%v score=%d matches=%d", res.Result, s.Score, len(s.Matches))
	}
}

func TestSessionHints(t *testing.T) {
	lvl := threePairLevel()
	s := NewSession(lvl)

	for i := 0; i < 2; i++ {
		m, err := s.UseHint()
		if err != nil {
			t.Fatalf("UseHint(%d) error = %v", i, err)
		}
		if m != (Match{RightID: lvl.Pairs[i].Right.ID, DutyID: lvl.Pairs[i].Duty.ID}) {
			t.Fatalf("UseHint(%d) = %+v, want pair %d", i, m, i)
		}
		if s.Score != 0 {
			t.Fatalf("score after hint %d = %d, want 0", i, s.Score)
		}
	}
	if s.HintsRemaining != 0 {
		t.Fatalf("hints remaining = %d, want 0", s.HintsRemaining)
	}

	before := *s
	beforeMatches := len(s.Matches)
	if _, err := s.UseHint(); !errors.Is(err, ErrNoHints) {
		t.Fatalf("third UseHint() error = %v, want ErrNoHints", err)
	}
	if s.Score != before.Score || s.HintsRemaining != 0 || len(s.Matches) != beforeMatches {
		t.Fatal("rejected hint changed session state")
	}

	res, err := s.Propose("r-equality", "d-harmony")
	if err != nil || res.Result != Accepted {
		t.Fatalf("Propose() = %v, %v", res.Result, err)
	}
	if s.State != StateWon || s.Score != 100 {
		t.Fatalf("state=%s score=%d, want won/100", s.State, s.Score)
	}
}

func TestSessionHintPenaltyAfterScoring(t *testing.T) {
	s := NewSession(threePairLevel())
	_, _ = s.Propose("r-speech", "d-respect")
	if _, err := s.UseHint(); err != nil {
		t.Fatal(err)
	}
	if s.Score != 50 {
		t.Fatalf("score = %d, want 50", s.Score)
	}
}

func TestSessionTimeUp(t *testing.T) {
	lvl := threePairLevel()
	lvl.TimeLimit = intPtr(2)
	s := NewSession(lvl)

	if st := s.Tick(); st != StatePlaying {
		t.Fatalf("after 1 tick state = %s", st)
	}
	if st := s.Tick(); st != StateTimeUp {
		t.Fatalf("after 2 ticks state = %s", st)
	}
	if _, err := s.Propose("r-speech", "d-respect"); !errors.Is(err, ErrSessionOver) {
		t.Fatalf("Propose() after time up error = %v", err)
	}
	if _, ok := s.Outcome(); ok {
		t.Fatal("time_up session must not produce an outcome")
	}
	// the level definition keeps its own limit
	if *lvl.TimeLimit != 2 {
		t.Fatal("session ticks leaked into the level")
	}
}

func TestSessionUntimedTickIsNoop(t *testing.T) {
	lvl := threePairLevel()
	lvl.TimeLimit = nil
	s := NewSession(lvl)
	for i := 0; i < 1000; i++ {
		s.Tick()
	}
	if s.State != StatePlaying || s.TimeLeft != nil {
		t.Fatalf("untimed session changed: state=%s", s.State)
	}
}

func TestDutyOptionsContainsEveryOption(t *testing.T) {
	lvl := threePairLevel()
	opts := DutyOptions(lvl, rand.New(rand.NewSource(7)))
	if len(opts) != 4 {
		t.Fatalf("len(options) = %d, want 4", len(opts))
	}
	seen := map[string]bool{}
	for _, o := range opts {
		seen[o.ID] = true
	}
	for _, id := range []string{"d-respect", "d-learn", "d-harmony", "x-tax"} {
		if !seen[id] {
			t.Errorf("option %q missing", id)
		}
	}
}

func TestOutcomeRatesAgainstLevelBaseScore(t *testing.T) {
	l := threePairLevel()
	l.TimeLimit = nil
	if got := l.BaseScore(); got != 300 {
		t.Fatalf("BaseScore() = %d, want 300", got)
	}

	s := NewSession(l)
	for i := 0; i < 2; i++ {
		if _, err := s.UseHint(); err != nil {
			t.Fatalf("UseHint(%d) error = %v", i, err)
		}
	}
	if _, err := s.Propose("r-equality", "d-harmony"); err != nil {
		t.Fatal(err)
	}
	out, ok := s.Outcome()
	if !ok {
		t.Fatal("Outcome() not available for a won session")
	}
	if out.FinalScore != 100 || out.Stars != 1 {
		t.Fatalf("Outcome() = %+v, want {100 1}", out)
	}
	if want := ComputeOutcome(s.Score, s.TimeLeft, len(l.Pairs)); out != want {
		t.Fatalf("Outcome() = %+v, ComputeOutcome() = %+v", out, want)
	}
}
