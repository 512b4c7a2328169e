// Package sim defines the lifecycle shared by every reveal simulator.
//
// A simulator consumes a predetermined winner and a participant list and
// plays a time-bounded animation that is guaranteed to end on that winner.
// The session state machine is Idle -> Running -> Concluding -> Done, with
// Cancelled as the terminal alternative reached from Running or Concluding.
package sim

import (
	"sync"
	"time"

	"github.com/google/uuid"

	timing "github.com/classpick/classpick/pkg/timing"
)

// State names a point in the session lifecycle.
type State int

// Session states.
const (
	StateIdle State = iota
	StateRunning
	StateConcluding
	StateDone
	StateCancelled
)

// String returns the lowercase state name used in snapshots and logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateConcluding:
		return "concluding"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Session tracks one animation run: its state, the timers it scheduled,
// and the exactly-once completion callback. Safe for concurrent use; timer
// callbacks and Cancel may race.
type Session struct {
	mu        sync.Mutex
	id        string
	state     State
	timers    []timing.Timer
	onDone    func()
	startedAt time.Time
}

// NewSession creates a running session started at now.
func NewSession(onDone func(), now time.Time) *Session {
	return &Session{
		id:        uuid.NewString(),
		state:     StateRunning,
		onDone:    onDone,
		startedAt: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether the session is Running or Concluding.
func (s *Session) Active() bool {
	st := s.State()
	return st == StateRunning || st == StateConcluding
}

// Track registers a timer so Cancel can deregister it.
func (s *Session) Track(t timing.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, t)
}

// Conclude moves Running -> Concluding. Returns false if the session is
// not running, so racing frame callbacks conclude at most once.
func (s *Session) Conclude() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return false
	}
	s.state = StateConcluding
	return true
}

// Complete moves the session to Done and fires the completion callback.
// It is a no-op after cancellation or an earlier completion; the callback
// can therefore never fire twice, and never after Cancel.
func (s *Session) Complete() bool {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StateConcluding {
		s.mu.Unlock()
		return false
	}
	s.state = StateDone
	done := s.onDone
	s.onDone = nil
	s.mu.Unlock()

	if done != nil {
		done()
	}
	return true
}

// Cancel stops every tracked timer and moves the session to Cancelled.
// A cancelled session never invokes its completion callback.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StateConcluding {
		s.mu.Unlock()
		return false
	}
	s.state = StateCancelled
	s.onDone = nil
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	return true
}
