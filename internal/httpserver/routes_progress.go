// internal/httpserver/routes_progress.go
//
// Progress, settings and leaderboard routes:
//   - GET  /progress            → { "<levelId>": LevelProgress }
//   - POST /progress/reset      → clear progress and leaderboards (settings kept)
//   - GET  /settings            → current settings (defaults on first read)
//   - PUT  /settings            → replace settings
//   - GET  /leaderboard/{level} → top scores (?limit=, default 20, max 100)

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rightsquest/internal/game"
	"github.com/robalobadob/rightsquest/internal/progress"
)

const maxLeaderboardLimit = 100

func (s *Server) mountProgress(r chi.Router) {
	r.Get("/progress", s.handleProgress)
	r.Post("/progress/reset", s.handleResetProgress)
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
	r.Get("/leaderboard/{levelId}", s.handleLeaderboard)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loadProgress(r.Context()))
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.progress.ResetProgress(r.Context()); err != nil {
		log.Error().Err(err).Msg("reset progress")
		writeErr(w, http.StatusInternalServerError, "reset_failed")
		return
	}
	log.Info().Msg("progress reset")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	gs, err := s.progress.GetSettings(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("settings read failed; using defaults")
		gs = game.DefaultSettings()
	}
	writeJSON(w, http.StatusOK, gs)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var gs game.GameSettings
	if err := json.NewDecoder(r.Body).Decode(&gs); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := gs.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_settings", "detail": err.Error()})
		return
	}
	saved := true
	if err := s.progress.SaveSettings(r.Context(), gs); err != nil {
		log.Warn().Err(err).Msg("settings not saved")
		saved = false
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": gs, "saved": saved})
}

// lbRes is returned by /leaderboard/{levelId}.
type lbRes struct {
	LevelID int                   `json:"levelId"`
	Top     []progress.ScoreEntry `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	l, ok := levelFromParam(r, "levelId")
	if !ok {
		writeErr(w, http.StatusNotFound, "level_not_found")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	top, err := s.progress.TopScores(r.Context(), l.ID, limit)
	if err != nil {
		log.Error().Err(err).Int("level", l.ID).Msg("leaderboard")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{LevelID: l.ID, Top: top})
}
