// internal/httpserver/routes_play.go
//
// Play-session routes:
//   - POST /play/new   → start a session on an unlocked level
//   - POST /play/match → propose a (right, duty) pairing
//   - POST /play/hint  → spend a hint to auto-complete one pair
//   - GET  /play/{id}  → session snapshot
//   - POST /play/quit  → stop the clock and drop the session
//
// A session that reaches "won" is finalized exactly once: stars are computed,
// the best-of outcome is recorded (unlocking the next level) and a leaderboard
// entry is appended. Progress is only recorded for levels the campaign has
// unlocked, so the daily level can never skip the unlock order.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rightsquest/internal/game"
	"github.com/robalobadob/rightsquest/internal/levels"
	"github.com/robalobadob/rightsquest/internal/progress"
	"github.com/robalobadob/rightsquest/internal/store"
)

func (s *Server) mountPlay(r chi.Router) {
	r.Route("/play", func(r chi.Router) {
		r.Post("/new", s.handleNewSession)
		r.Post("/match", s.handleMatch)
		r.Post("/hint", s.handleHint)
		r.Post("/quit", s.handleQuit)
		r.Get("/{id}", s.handleSnapshot)
	})
}

// sessionView is the public snapshot of a session.
type sessionView struct {
	SessionID      string       `json:"sessionId"`
	LevelID        int          `json:"levelId"`
	State          game.State   `json:"state"`
	Score          int          `json:"score"`
	Matches        []game.Match `json:"matches"`
	TotalPairs     int          `json:"totalPairs"`
	HintsRemaining int          `json:"hintsRemaining"`
	TimeLeft       *int         `json:"timeLeft"`
	Attempts       int          `json:"attempts"`
}

func viewOf(ss *game.Session) sessionView {
	v := sessionView{
		SessionID:      ss.ID,
		LevelID:        ss.Level.ID,
		State:          ss.State,
		Score:          ss.Score,
		Matches:        append([]game.Match{}, ss.Matches...),
		TotalPairs:     len(ss.Level.Pairs),
		HintsRemaining: ss.HintsRemaining,
		Attempts:       ss.Attempts,
	}
	if ss.TimeLeft != nil {
		t := *ss.TimeLeft
		v.TimeLeft = &t
	}
	return v
}

// completion is attached to the response that wins a level.
type completion struct {
	FinalScore int  `json:"finalScore"`
	TimeBonus  int  `json:"timeBonus"`
	Stars      int  `json:"stars"`
	BestScore  int  `json:"bestScore"`
	Saved      bool `json:"saved"`
}

// ------------------------------- new ---------------------------------------

type newSessionReq struct {
	LevelID int `json:"levelId"`
}

type newSessionRes struct {
	sessionView
	Level levelView `json:"level"`
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	l, ok := levels.ByID(req.LevelID)
	if !ok {
		writeErr(w, http.StatusNotFound, "level_not_found")
		return
	}
	if !s.loadProgress(r.Context())[l.ID].Unlocked {
		writeErr(w, http.StatusForbidden, "level_locked")
		return
	}
	res, err := s.startSession(r, l, false)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// startSession creates, stores and starts the clock of a new session.
func (s *Server) startSession(r *http.Request, l game.Level, daily bool) (newSessionRes, error) {
	ss := game.NewSession(l)
	live := store.NewLive(ss, s.playerName(r), daily)
	if err := s.sessions.Save(r.Context(), live); err != nil {
		log.Error().Err(err).Msg("save session")
		return newSessionRes{}, err
	}
	live.StartClock(s.ctx, s.opts.TickInterval, func(ss *game.Session) {
		log.Info().Str("session", ss.ID).Int("level", ss.Level.ID).Int("score", ss.Score).Msg("time up")
	})

	var res newSessionRes
	live.Do(func(ss *game.Session) { res.sessionView = viewOf(ss) })
	res.Level = newLevelView(l)
	log.Info().Str("session", ss.ID).Int("level", l.ID).Bool("daily", daily).Msg("session started")
	return res, nil
}

// ------------------------------ match --------------------------------------

type matchReq struct {
	SessionID string `json:"sessionId"`
	RightID   string `json:"rightId"`
	DutyID    string `json:"dutyId"`
}

type matchRes struct {
	Result      string `json:"result"` // correct | incorrect | already_matched
	Explanation string `json:"explanation,omitempty"`
	Delta       int    `json:"delta"`
	sessionView
	Completion *completion `json:"completion,omitempty"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	live, ok := s.liveSession(w, r, req.SessionID)
	if !ok {
		return
	}

	var (
		res matchRes
		err error
	)
	live.Do(func(ss *game.Session) {
		var mr game.MatchResult
		mr, err = ss.Propose(req.RightID, req.DutyID)
		res.Result, res.Explanation, res.Delta = mr.Result.String(), mr.Explanation, mr.Delta
		res.sessionView = viewOf(ss)
	})
	if errors.Is(err, game.ErrSessionOver) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "session_finished", "state": res.State})
		return
	}
	if res.State == game.StateWon {
		res.Completion = s.finish(r.Context(), live)
	}
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------- hint --------------------------------------

type sessionReq struct {
	SessionID string `json:"sessionId"`
}

type hintRes struct {
	Match game.Match `json:"match"`
	sessionView
	Completion *completion `json:"completion,omitempty"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req sessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	live, ok := s.liveSession(w, r, req.SessionID)
	if !ok {
		return
	}

	var (
		res hintRes
		err error
	)
	live.Do(func(ss *game.Session) {
		res.Match, err = ss.UseHint()
		res.sessionView = viewOf(ss)
	})
	switch {
	case errors.Is(err, game.ErrNoHints):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "no_hints", "state": res.State})
		return
	case errors.Is(err, game.ErrSessionOver):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "session_finished", "state": res.State})
		return
	}
	if res.State == game.StateWon {
		res.Completion = s.finish(r.Context(), live)
	}
	writeJSON(w, http.StatusOK, res)
}

// --------------------------- snapshot / quit -------------------------------

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	live, ok := s.liveSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var v sessionView
	live.Do(func(ss *game.Session) { v = viewOf(ss) })
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	var req sessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.sessions.Delete(r.Context(), req.SessionID); err != nil {
		writeErr(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// liveSession loads a session or writes a 404.
func (s *Server) liveSession(w http.ResponseWriter, r *http.Request, id string) (*store.Live, bool) {
	live, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	return live, true
}

// ------------------------------ finish -------------------------------------

// finish stops the clock of a won session and records its outcome once.
// Storage failures are logged and surface as Saved=false.
func (s *Server) finish(ctx context.Context, live *store.Live) *completion {
	live.StopClock()
	if !live.MarkRecorded() {
		return nil
	}

	var (
		out   game.Outcome
		won   bool
		view  sessionView
		bonus int
	)
	live.Do(func(ss *game.Session) {
		out, won = ss.Outcome()
		view = viewOf(ss)
		bonus = game.TimeBonus(ss.TimeLeft)
	})
	if !won {
		return nil
	}

	prev := s.loadProgress(ctx)[view.LevelID]
	rec := progress.Improve(prev, out)
	c := &completion{
		FinalScore: out.FinalScore,
		TimeBonus:  bonus,
		Stars:      out.Stars,
		BestScore:  rec.BestScore,
		Saved:      true,
	}

	switch {
	case !prev.Unlocked:
		// daily play of a level still locked in the campaign: leaderboard only
		c.Saved = false
	default:
		if err := s.progress.RecordLevelOutcome(ctx, view.LevelID, rec); err != nil {
			log.Warn().Err(err).Int("level", view.LevelID).Msg("progress not saved")
			c.Saved = false
		}
	}
	entry := progress.ScoreEntry{
		LevelID:   view.LevelID,
		Player:    live.Player,
		Score:     out.FinalScore,
		Stars:     out.Stars,
		ElapsedMs: int(s.now().Sub(live.StartedAt()).Milliseconds()),
	}
	if err := s.progress.AddScore(ctx, entry); err != nil {
		log.Warn().Err(err).Int("level", view.LevelID).Msg("leaderboard entry not saved")
	}

	log.Info().
		Str("session", view.SessionID).
		Int("level", view.LevelID).
		Int("finalScore", out.FinalScore).
		Int("stars", out.Stars).
		Bool("daily", live.Daily).
		Msg("level complete")
	return c
}
