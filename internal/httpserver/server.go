// internal/httpserver/server.go
//
// HTTP server wiring for the Rights & Duties backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/", "/health".
//   - Level catalogue: /levels, /levels/{id}.
//   - Play sessions: /play/* (propose matches, hints, snapshots, quit).
//   - Progress, settings and leaderboards backed by a progress.Store.
//   - Daily level: mounted under /daily.
//
// Notes:
//   - Progress reads that fail fall back to first-run defaults; progress writes
//     that fail are logged and reported as "saved": false. Play never blocks on
//     storage.
//   - Each timed session owns a countdown that is stopped on win, quit or sweep.

package httpserver

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rightsquest/internal/game"
	"github.com/robalobadob/rightsquest/internal/progress"
	"github.com/robalobadob/rightsquest/internal/store"
)

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	ClientOrigin string        // CORS origin (default http://localhost:5173)
	DailySalt    string        // HMAC salt for the daily level
	PlayerName   string        // leaderboard name when X-Player-Name is absent
	TickInterval time.Duration // countdown tick (default 1s)
	SessionTTL   time.Duration // sweep sessions idle longer than this (default 1h)
}

func (o *Options) defaults() {
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.DailySalt == "" {
		o.DailySalt = "local_dev_salt"
	}
	if o.PlayerName == "" {
		o.PlayerName = "player"
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = time.Hour
	}
}

// Server bundles router, live session store and progress store.
type Server struct {
	r        *chi.Mux
	sessions store.Store
	progress progress.Store
	opts     Options
	ctx      context.Context // parent of every session countdown
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// ctx bounds background work (countdowns, sweeper).
func New(ctx context.Context, sessions store.Store, prog progress.Store, opts Options) *Server {
	opts.defaults()
	s := &Server{
		r:        chi.NewRouter(),
		sessions: sessions,
		progress: prog,
		opts:     opts,
		ctx:      ctx,
		now:      time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Player-Name"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"rightsquest-go","endpoints":["/health","/levels","/play/*","/progress","/settings","/leaderboard/{levelId}","/daily"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountLevels(s.r)
	s.mountPlay(s.r)
	s.mountProgress(s.r)
	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	go s.sweepLoop()
	return s
}

// Router exposes the internal router (useful for tests and custom servers).
func (s *Server) Router() chi.Router { return s.r }

// sweepLoop drops stale sessions until the server context ends.
func (s *Server) sweepLoop() {
	t := time.NewTicker(s.opts.SessionTTL / 4)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Sweep(s.ctx, s.now().Add(-s.opts.SessionTTL)); n > 0 {
				log.Debug().Int("sessions", n).Msg("swept stale sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr writes {"error": code}.
func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// loadProgress reads progress, treating a failed read as first-run defaults.
func (s *Server) loadProgress(ctx context.Context) map[int]game.LevelProgress {
	p, err := s.progress.GetProgress(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("progress read failed; using defaults")
		return map[int]game.LevelProgress{1: progress.FirstLevel()}
	}
	return p
}

// maxPlayerName caps leaderboard names, counted in characters.
const maxPlayerName = 32

// playerName picks the leaderboard name for a request.
func (s *Server) playerName(r *http.Request) string {
	if n := strings.TrimSpace(r.Header.Get("X-Player-Name")); n != "" {
		if r := []rune(n); len(r) > maxPlayerName {
			n = string(r[:maxPlayerName])
		}
		return n
	}
	return s.opts.PlayerName
}

// newRand returns a per-request shuffler.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
