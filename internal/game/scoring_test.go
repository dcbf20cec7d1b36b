package game

import "testing"

func TestScoreDelta(t *testing.T) {
	tests := map[EventKind]int{
		EventCorrectMatch:     100,
		EventIncorrectAttempt: -10,
		EventHintUsed:         -50,
		EventKind("other"):    0,
	}
	for kind, want := range tests {
		if got := ScoreDelta(kind); got != want {
			t.Errorf("ScoreDelta(%q) = %d, want %d", kind, got, want)
		}
	}
	if HintCost() != 50 {
		t.Errorf("HintCost() = %d, want 50", HintCost())
	}
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	if got := ApplyDelta(0, -10); got != 0 {
		t.Errorf("ApplyDelta(0, -10) = %d", got)
	}
	if got := ApplyDelta(30, -50); got != 0 {
		t.Errorf("ApplyDelta(30, -50) = %d", got)
	}
	if got := ApplyDelta(200, -10); got != 190 {
		t.Errorf("ApplyDelta(200, -10) = %d", got)
	}
}

func TestComputeStars(t *testing.T) {
	tests := []struct {
		final, base, want int
	}{
		{300, 300, 3},
		{270, 300, 3},
		{269, 300, 2},
		{210, 300, 2},
		{209, 300, 1},
		{0, 300, 1},
		{400, 300, 3},
		{90, 100, 3},
		{70, 100, 2},
	}
	for _, tt := range tests {
		if got := ComputeStars(tt.final, tt.base); got != tt.want {
			t.Errorf("ComputeStars(%d, %d) = %d, want %d", tt.final, tt.base, got, tt.want)
		}
	}
}

func TestTimeBonus(t *testing.T) {
	if got := TimeBonus(nil); got != 0 {
		t.Errorf("TimeBonus(nil) = %d", got)
	}
	if got := TimeBonus(intPtr(0)); got != 0 {
		t.Errorf("TimeBonus(0) = %d", got)
	}
	if got := TimeBonus(intPtr(37)); got != 74 {
		t.Errorf("TimeBonus(37) = %d", got)
	}
}

func TestComputeOutcome(t *testing.T) {
	got := ComputeOutcome(300, intPtr(50), 3)
	if got.FinalScore != 400 || got.Stars != 3 {
		t.Fatalf("ComputeOutcome() = %+v, want {400 3}", got)
	}
	got = ComputeOutcome(150, nil, 3)
	if got.FinalScore != 150 || got.Stars != 1 {
		t.Fatalf("ComputeOutcome() untimed = %+v, want {150 1}", got)
	}
}
