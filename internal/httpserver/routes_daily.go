// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Level" mode:
//   - GET /daily       → today's level id and date
//   - POST /daily/play → start a session on today's level
//
// Every player gets the same level on a given UTC date (HMAC of date + salt).
// The daily level is playable even while it is still locked in the campaign;
// such a win only reaches the leaderboard.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/rightsquest/internal/daily"
	"github.com/robalobadob/rightsquest/internal/game"
	"github.com/robalobadob/rightsquest/internal/levels"
)

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDaily)
		r.Post("/play", s.handleDailyPlay)
	})
}

type dailyRes struct {
	Date    string `json:"date"`
	LevelID int    `json:"levelId"`
	Name    string `json:"name"`
}

// today returns the date key and level of the day.
func (s *Server) today() (string, game.Level, bool) {
	now := s.now()
	l, ok := daily.Pick(levels.All(), now, s.opts.DailySalt)
	return daily.DateKey(now), l, ok
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date, l, ok := s.today()
	if !ok {
		writeErr(w, http.StatusNotFound, "no_levels")
		return
	}
	writeJSON(w, http.StatusOK, dailyRes{Date: date, LevelID: l.ID, Name: l.Name})
}

func (s *Server) handleDailyPlay(w http.ResponseWriter, r *http.Request) {
	date, l, ok := s.today()
	if !ok {
		writeErr(w, http.StatusNotFound, "no_levels")
		return
	}
	res, err := s.startSession(r, l, true)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "session": res})
}
