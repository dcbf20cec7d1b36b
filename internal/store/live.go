package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/rightsquest/internal/game"
)

// Live wraps a game.Session with the lock and countdown the server needs.
// All access to the session goes through Do.
type Live struct {
	mu       sync.Mutex
	sess     *game.Session
	clock    *game.Countdown
	id       string
	started  time.Time
	active   time.Time // last Do; guarded by mu
	Player   string
	Daily    bool
	recorded bool
}

// NewLive wraps s for a player.
func NewLive(s *game.Session, player string, daily bool) *Live {
	return &Live{sess: s, id: s.ID, started: s.StartedAt, active: s.StartedAt, Player: player, Daily: daily}
}

// ID returns the session ID.
func (l *Live) ID() string { return l.id }

// StartedAt returns when the session began.
func (l *Live) StartedAt() time.Time { return l.started }

// Do runs fn with exclusive access to the session and marks it active.
func (l *Live) Do(fn func(s *game.Session)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = time.Now()
	fn(l.sess)
}

// LastActive returns when the session was last touched through Do.
// Clock ticks do not count.
func (l *Live) LastActive() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// StartClock starts the countdown for timed levels; untimed sessions are left
// alone. onTimeUp runs once, under the session lock, when time runs out.
func (l *Live) StartClock(ctx context.Context, interval time.Duration, onTimeUp func(s *game.Session)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sess.TimeLeft == nil || l.clock != nil {
		return
	}
	l.clock = game.StartCountdown(ctx, interval, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.sess.State != game.StatePlaying {
			return false
		}
		if l.sess.Tick() == game.StateTimeUp {
			if onTimeUp != nil {
				onTimeUp(l.sess)
			}
			return false
		}
		return true
	})
}

// StopClock cancels the countdown if one is running and waits for its
// goroutine to exit. Must not be called from inside Do or onTimeUp.
func (l *Live) StopClock() {
	l.mu.Lock()
	c := l.clock
	l.mu.Unlock()
	if c != nil {
		c.Stop()
		<-c.Done()
	}
}

// MarkRecorded flags the outcome as persisted and reports whether this call
// did so. Only the first call after a win returns true.
func (l *Live) MarkRecorded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.recorded {
		return false
	}
	l.recorded = true
	return true
}
