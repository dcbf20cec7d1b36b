// internal/httpserver/routes_levels.go
//
// Level catalogue:
//   - GET /levels      → every level with the player's unlock/star state
//   - GET /levels/{id} → one level's rights and shuffled duty options
//
// The answer key (which duty belongs to which right) is never sent.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/rightsquest/internal/game"
	"github.com/robalobadob/rightsquest/internal/levels"
)

func (s *Server) mountLevels(r chi.Router) {
	r.Get("/levels", s.handleListLevels)
	r.Get("/levels/{id}", s.handleGetLevel)
}

// levelSummary is one row of GET /levels.
type levelSummary struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Difficulty game.Difficulty `json:"difficulty"`
	Pairs      int             `json:"pairs"`
	TimeLimit  *int            `json:"timeLimit"`
	Hints      int             `json:"hints"`
	Unlocked   bool            `json:"unlocked"`
	Completed  bool            `json:"completed"`
	Stars      int             `json:"stars"`
	BestScore  int             `json:"bestScore"`
}

// levelView is the playable shape of a level.
type levelView struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Difficulty game.Difficulty `json:"difficulty"`
	TimeLimit  *int            `json:"timeLimit"`
	Hints      int             `json:"hints"`
	Rights     []game.Right    `json:"rights"`
	Duties     []game.Duty     `json:"duties"` // duties + distractors, shuffled
}

func newLevelView(l game.Level) levelView {
	return levelView{
		ID:         l.ID,
		Name:       l.Name,
		Difficulty: l.Difficulty,
		TimeLimit:  l.TimeLimit,
		Hints:      l.Hints,
		Rights:     game.Rights(l),
		Duties:     game.DutyOptions(l, newRand()),
	}
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	prog := s.loadProgress(r.Context())
	all := levels.All()
	out := make([]levelSummary, 0, len(all))
	for _, l := range all {
		p := prog[l.ID]
		out = append(out, levelSummary{
			ID:         l.ID,
			Name:       l.Name,
			Difficulty: l.Difficulty,
			Pairs:      len(l.Pairs),
			TimeLimit:  l.TimeLimit,
			Hints:      l.Hints,
			Unlocked:   p.Unlocked,
			Completed:  p.Completed,
			Stars:      p.Stars,
			BestScore:  p.BestScore,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	l, ok := levelFromParam(r, "id")
	if !ok {
		writeErr(w, http.StatusNotFound, "level_not_found")
		return
	}
	writeJSON(w, http.StatusOK, newLevelView(l))
}

// levelFromParam resolves a level id URL parameter.
func levelFromParam(r *http.Request, name string) (game.Level, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return game.Level{}, false
	}
	return levels.ByID(id)
}
