// internal/game/countdown.go
//
// Cancelable level timer. Calls tick once per interval until tick reports the
// clock has run out, the context ends, or Stop is called.

package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Countdown drives a periodic tick on its own goroutine.
type Countdown struct {
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	stopped atomic.Bool
}

// StartCountdown begins ticking every interval. tick returns false once the
// clock has expired, which ends the countdown.
func StartCountdown(ctx context.Context, interval time.Duration, tick func() bool) *Countdown {
	c := &Countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go c.run(ctx, interval, tick)
	return c
}

func (c *Countdown) run(ctx context.Context, interval time.Duration, tick func() bool) {
	defer close(c.done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-t.C:
			if c.stopped.Load() {
				return
			}
			if !tick() {
				c.stopped.Store(true)
				return
			}
		}
	}
}

// Stop cancels the countdown. Safe to call more than once and from inside tick.
// It does not wait for an in-flight tick; use Done for that.
func (c *Countdown) Stop() {
	c.once.Do(func() {
		c.stopped.Store(true)
		close(c.stop)
	})
}

// Done is closed once the ticking goroutine has exited.
func (c *Countdown) Done() <-chan struct{} { return c.done }
