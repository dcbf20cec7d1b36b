package progress

import (
	"context"
	"testing"
	"time"

	"github.com/robalobadob/rightsquest/internal/game"
)

// runContract exercises the behavior every backend must share.
func runContract(t *testing.T, open func(t *testing.T) Store) {
	t.Run("first read seeds level 1", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		got, err := st.GetProgress(ctx)
		if err != nil {
			t.Fatalf("GetProgress() error = %v", err)
		}
		if len(got) != 1 || got[1] != FirstLevel() {
			t.Fatalf("GetProgress() = %+v, want only unlocked level 1", got)
		}
		// seeded record is persisted
		again, err := st.GetProgress(ctx)
		if err != nil || len(again) != 1 || !again[1].Unlocked {
			t.Fatalf("second GetProgress() = %+v, %v", again, err)
		}
	})

	t.Run("completion unlocks next level", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		if _, err := st.GetProgress(ctx); err != nil {
			t.Fatal(err)
		}
		if err := st.RecordLevelOutcome(ctx, 1, Outcome{Completed: true, Stars: 3, BestScore: 400}); err != nil {
			t.Fatalf("RecordLevelOutcome() error = %v", err)
		}
		got, err := st.GetProgress(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want1 := game.LevelProgress{LevelID: 1, Completed: true, Stars: 3, BestScore: 400, Unlocked: true}
		if got[1] != want1 {
			t.Fatalf("level 1 = %+v, want %+v", got[1], want1)
		}
		want2 := game.LevelProgress{LevelID: 2, Unlocked: true}
		if got[2] != want2 {
			t.Fatalf("level 2 = %+v, want %+v", got[2], want2)
		}
		if _, ok := got[3]; ok {
			t.Fatal("level 3 must stay absent until level 2 is completed")
		}
	})

	t.Run("incomplete outcome does not unlock", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		if err := st.RecordLevelOutcome(ctx, 4, Outcome{Stars: 0, BestScore: 10}); err != nil {
			t.Fatal(err)
		}
		got, err := st.GetProgress(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got[4].Unlocked || got[4].BestScore != 10 {
			t.Fatalf("level 4 = %+v", got[4])
		}
		if _, ok := got[5]; ok {
			t.Fatal("level 5 unlocked by an incomplete outcome")
		}
	})

	t.Run("existing next level gets unlocked flag", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		if err := st.RecordLevelOutcome(ctx, 3, Outcome{BestScore: 50}); err != nil {
			t.Fatal(err)
		}
		if err := st.RecordLevelOutcome(ctx, 2, Outcome{Completed: true, Stars: 1, BestScore: 120}); err != nil {
			t.Fatal(err)
		}
		got, err := st.GetProgress(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !got[3].Unlocked || got[3].BestScore != 50 || got[3].Completed {
			t.Fatalf("level 3 = %+v", got[3])
		}
	})

	t.Run("settings default and round trip", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		gs, err := st.GetSettings(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if gs != game.DefaultSettings() {
			t.Fatalf("GetSettings() = %+v, want defaults", gs)
		}
		custom := game.GameSettings{SoundEnabled: false, Difficulty: game.DifficultyHard, TextSize: game.TextLarge, Language: "hi"}
		if err := st.SaveSettings(ctx, custom); err != nil {
			t.Fatal(err)
		}
		if gs, _ := st.GetSettings(ctx); gs != custom {
			t.Fatalf("GetSettings() = %+v, want %+v", gs, custom)
		}
	})

	t.Run("reset keeps settings", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		custom := game.DefaultSettings()
		custom.SoundEnabled = false
		if err := st.SaveSettings(ctx, custom); err != nil {
			t.Fatal(err)
		}
		if err := st.RecordLevelOutcome(ctx, 1, Outcome{Completed: true, Stars: 2, BestScore: 250}); err != nil {
			t.Fatal(err)
		}
		if err := st.AddScore(ctx, ScoreEntry{LevelID: 1, Player: "asha", Score: 250, Stars: 2}); err != nil {
			t.Fatal(err)
		}

		if err := st.ResetProgress(ctx); err != nil {
			t.Fatalf("ResetProgress() error = %v", err)
		}

		got, err := st.GetProgress(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[1] != FirstLevel() {
			t.Fatalf("progress after reset = %+v", got)
		}
		top, err := st.TopScores(ctx, 1, 0)
		if err != nil || len(top) != 0 {
			t.Fatalf("scores after reset = %+v, %v", top, err)
		}
		gs, err := st.GetSettings(ctx)
		if err != nil || gs != custom {
			t.Fatalf("settings after reset = %+v, %v", gs, err)
		}
	})

	t.Run("leaderboard ordering", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		entries := []ScoreEntry{
			{LevelID: 2, Player: "slow", Score: 300, ElapsedMs: 9000, CreatedAt: base},
			{LevelID: 2, Player: "best", Score: 420, ElapsedMs: 5000, CreatedAt: base},
			{LevelID: 2, Player: "fast", Score: 300, ElapsedMs: 4000, CreatedAt: base.Add(time.Second)},
			{LevelID: 9, Player: "other-level", Score: 999, CreatedAt: base},
		}
		for _, e := range entries {
			if err := st.AddScore(ctx, e); err != nil {
				t.Fatalf("AddScore() error = %v", err)
			}
		}
		top, err := st.TopScores(ctx, 2, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(top) != 2 || top[0].Player != "best" || top[1].Player != "fast" {
			t.Fatalf("TopScores() = %+v", top)
		}
	})
}

func TestMemoryStoreContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestImprove(t *testing.T) {
	prev := game.LevelProgress{LevelID: 1, Completed: true, Stars: 3, BestScore: 500, Unlocked: true}
	got := Improve(prev, game.Outcome{FinalScore: 420, Stars: 2})
	if got != (Outcome{Completed: true, Stars: 3, BestScore: 500}) {
		t.Fatalf("Improve() kept worse values: %+v", got)
	}
	got = Improve(game.LevelProgress{}, game.Outcome{FinalScore: 400, Stars: 3})
	if got != (Outcome{Completed: true, Stars: 3, BestScore: 400}) {
		t.Fatalf("Improve() = %+v", got)
	}
}
