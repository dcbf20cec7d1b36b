package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/rightsquest/internal/game"
)

func timedLevel(seconds int) game.Level {
	return game.Level{
		ID: 1, Name: "t", Difficulty: game.DifficultyEasy, Hints: 1, TimeLimit: &seconds,
		Pairs: []game.Pair{{Right: game.Right{ID: "r"}, Duty: game.Duty{ID: "d"}}},
	}
}

func TestMemoryStoreSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	l := NewLive(game.NewSession(timedLevel(60)), "asha", false)

	if err := st.Save(ctx, l); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := st.Get(ctx, l.ID())
	if err != nil || got != l {
		t.Fatalf("Get() = %p, %v", got, err)
	}
	if st.Len() != 1 {
		t.Fatalf("Len() = %d", st.Len())
	}
	if err := st.Delete(ctx, l.ID()); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, l.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete(missing) error = %v", err)
	}
}

func TestLiveClockTimesOut(t *testing.T) {
	l := NewLive(game.NewSession(timedLevel(2)), "", false)
	fired := make(chan game.State, 1)
	l.StartClock(context.Background(), time.Millisecond, func(s *game.Session) { fired <- s.State })

	select {
	case st := <-fired:
		if st != game.StateTimeUp {
			t.Fatalf("onTimeUp state = %s", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("time up never fired")
	}
}

func TestDeleteStopsClock(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	l := NewLive(game.NewSession(timedLevel(3600)), "", false)
	_ = st.Save(ctx, l)
	l.StartClock(ctx, time.Millisecond, nil)
	time.Sleep(5 * time.Millisecond)
	_ = st.Delete(ctx, l.ID())

	var left int
	l.Do(func(s *game.Session) { left = *s.TimeLeft })
	time.Sleep(10 * time.Millisecond)
	var later int
	l.Do(func(s *game.Session) { later = *s.TimeLeft })
	if later != left {
		t.Fatalf("clock kept ticking after delete: %d → %d", left, later)
	}
}

func TestMarkRecordedOnce(t *testing.T) {
	l := NewLive(game.NewSession(timedLevel(10)), "", false)
	if !l.MarkRecorded() {
		t.Fatal("first MarkRecorded() = false")
	}
	if l.MarkRecorded() {
		t.Fatal("second MarkRecorded() = true")
	}
}

func TestSweepDropsOldSessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	old := game.NewSession(timedLevel(60))
	old.StartedAt = time.Now().Add(-2 * time.Hour)
	fresh := game.NewSession(timedLevel(60))
	_ = st.Save(ctx, NewLive(old, "", false))
	_ = st.Save(ctx, NewLive(fresh, "", false))

	if n := st.Sweep(ctx, time.Now().Add(-time.Hour)); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if _, err := st.Get(ctx, fresh.ID); err != nil {
		t.Fatal("fresh session swept")
	}
	if _, err := st.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("old session kept")
	}
}

func TestSweepKeepsActiveLongSession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	untimed := game.Level{ID: 1, Pairs: []game.Pair{{Right: game.Right{ID: "r"}, Duty: game.Duty{ID: "d"}}}}
	long := game.NewSession(untimed)
	long.StartedAt = time.Now().Add(-3 * time.Hour)
	l := NewLive(long, "", false)
	_ = st.Save(ctx, l)

	// a recent move keeps the session alive past the TTL
	l.Do(func(s *game.Session) {})
	if n := st.Sweep(ctx, time.Now().Add(-time.Hour)); n != 0 {
		t.Fatalf("Sweep() = %d, want 0", n)
	}
	if _, err := st.Get(ctx, long.ID); err != nil {
		t.Fatal("active session swept")
	}
}
