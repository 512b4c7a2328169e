package timing

import (
	"sort"
	"sync"
	"time"
)

// Fake implements Scheduler on a manually advanced clock. Tests create a
// Fake, register callbacks through the Scheduler interface, and call
// Advance to execute everything that becomes due, in deadline order.
type Fake struct {
	mu            sync.Mutex
	now           time.Time
	seq           int
	pending       []*fakeEvent
	frameInterval time.Duration
}

type fakeEvent struct {
	fake     *Fake
	deadline time.Time
	seq      int
	fire     func() // run with the fake's lock released
	stopped  bool
}

// NewFake creates a fake scheduler starting at the given instant.
func NewFake(start time.Time) *Fake {
	return &Fake{
		now:           start,
		frameInterval: defaultFrameInterval,
	}
}

// SetFrameInterval adjusts the simulated frame cadence.
func (f *Fake) SetFrameInterval(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d > 0 {
		f.frameInterval = d
	}
}

// Now returns the current simulated time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc registers f to run once the clock advances past d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := &fakeEvent{fake: f, deadline: f.now.Add(d), seq: f.nextSeq(), fire: fn}
	f.pending = append(f.pending, ev)
	return ev
}

// EveryFrame registers a repeating frame callback at the frame interval.
// The callback re-arms itself until it returns false or is stopped.
func (f *Fake) EveryFrame(fn func(now time.Time) bool) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev := &fakeEvent{fake: f, deadline: f.now.Add(f.frameInterval), seq: f.nextSeq()}
	ev.fire = func() {
		if !fn(f.Now()) {
			return
		}
		// Re-arm the same handle so a held Timer keeps controlling the loop.
		f.mu.Lock()
		defer f.mu.Unlock()
		if ev.stopped {
			return
		}
		ev.deadline = f.now.Add(f.frameInterval)
		ev.seq = f.nextSeq()
		f.pending = append(f.pending, ev)
	}
	f.pending = append(f.pending, ev)
	return ev
}

// Advance moves the clock forward by d, firing every due callback in
// deadline order. Callbacks may schedule further callbacks; those fire too
// if they fall within the advanced window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		ev := f.popDue(target)
		if ev == nil {
			break
		}
		if f.now.Before(ev.deadline) {
			f.now = ev.deadline
		}
		f.mu.Unlock()
		ev.fire()
		f.mu.Lock()
	}
	f.now = target
	f.mu.Unlock()
}

// PendingCount reports how many callbacks are waiting. Useful for asserting
// that cancellation deregistered everything.
func (f *Fake) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.pending {
		if !ev.stopped {
			n++
		}
	}
	return n
}

// popDue removes and returns the earliest unstopped event at or before
// target, or nil. Caller holds the lock.
func (f *Fake) popDue(target time.Time) *fakeEvent {
	sort.SliceStable(f.pending, func(i, j int) bool {
		if !f.pending[i].deadline.Equal(f.pending[j].deadline) {
			return f.pending[i].deadline.Before(f.pending[j].deadline)
		}
		return f.pending[i].seq < f.pending[j].seq
	})
	for len(f.pending) > 0 {
		ev := f.pending[0]
		if ev.stopped {
			f.pending = f.pending[1:]
			continue
		}
		if ev.deadline.After(target) {
			return nil
		}
		f.pending = f.pending[1:]
		return ev
	}
	return nil
}

func (f *Fake) nextSeq() int {
	f.seq++
	return f.seq
}

// Stop marks the event as cancelled so it never fires again.
func (ev *fakeEvent) Stop() bool {
	ev.fake.mu.Lock()
	defer ev.fake.mu.Unlock()
	if ev.stopped {
		return false
	}
	ev.stopped = true
	return true
}
