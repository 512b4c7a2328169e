// Package timing abstracts clocks and callback scheduling so animation
// logic can run against wall time in production and simulated time in tests.
package timing

import (
	"sync"
	"time"
)

// Default scheduler configuration constants.
const (
	// defaultFrameInterval approximates a 60fps redraw cadence.
	defaultFrameInterval = 16 * time.Millisecond
)

// Clock reads the current time.
type Clock interface {
	Now() time.Time
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the pending callback. It returns false if the callback
	// already fired or was stopped before.
	Stop() bool
}

// Scheduler schedules deferred and per-frame callbacks.
type Scheduler interface {
	Clock

	// AfterFunc invokes f once after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// EveryFrame invokes f once per frame until f returns false or the
	// returned timer is stopped. f receives the scheduler's current time.
	EveryFrame(f func(now time.Time) bool) Timer
}

// Option applies a configuration option to the wall scheduler.
type Option func(*Wall)

// WithFrameInterval sets the interval between frame callbacks.
func WithFrameInterval(d time.Duration) Option {
	return func(w *Wall) {
		if d > 0 {
			w.frameInterval = d
		}
	}
}

// Wall implements Scheduler against the real clock.
type Wall struct {
	frameInterval time.Duration
}

// NewWall creates a wall-clock scheduler with configuration options.
func NewWall(opts ...Option) *Wall {
	w := &Wall{
		frameInterval: defaultFrameInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Now returns the current wall-clock time.
func (w *Wall) Now() time.Time {
	return time.Now()
}

// AfterFunc invokes f once after d on its own goroutine.
func (w *Wall) AfterFunc(d time.Duration, f func()) Timer {
	t := &wallTimer{}
	t.inner = time.AfterFunc(d, func() {
		t.mu.Lock()
		t.fired = true
		t.mu.Unlock()
		f()
	})
	return t
}

// EveryFrame drives f from a ticker goroutine at the frame interval.
func (w *Wall) EveryFrame(f func(now time.Time) bool) Timer {
	stop := make(chan struct{})
	t := &frameTimer{stop: stop}
	go func() {
		ticker := time.NewTicker(w.frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if !f(now) {
					return
				}
			}
		}
	}()
	return t
}

type wallTimer struct {
	mu    sync.Mutex
	inner *time.Timer
	fired bool
}

func (t *wallTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired {
		return false
	}
	return t.inner.Stop()
}

type frameTimer struct {
	once sync.Once
	stop chan struct{}
}

func (t *frameTimer) Stop() bool {
	stopped := false
	t.once.Do(func() {
		close(t.stop)
		stopped = true
	})
	return stopped
}
