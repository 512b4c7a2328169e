// Package wheel animates a spinning wheel that rests on a predetermined
// winner.
//
// Each participant owns an equal angular segment, ordered by list position.
// The pointer is fixed; the wheel rotates. The target rest angle is solved
// up front from the winner's segment center, so the spin is guaranteed to
// land there no matter how the easing plays out.
package wheel

import (
	"context"
	"math"
	"sync"
	"time"

	sim "github.com/classpick/classpick/internal/sim"
	logger "github.com/classpick/classpick/pkg/logger"
	timing "github.com/classpick/classpick/pkg/timing"
)

// Default spin configuration constants.
const (
	defaultFullSpins = 5
	defaultDuration  = 4 * time.Second

	degreesPerTurn = 360.0
	// minDelta keeps a draw that solves to ~0 degrees from looking like a
	// non-spin; such deltas are bumped a full turn forward.
	minDelta = 1e-9
)

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithFullSpins sets how many whole turns are added for visual effect.
func WithFullSpins(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.fullSpins = n
		}
	}
}

// WithDuration sets the wall-clock length of the spin animation.
func WithDuration(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithRestAngle seeds the absolute rotation, restoring a persisted wheel
// position so the first spin after a restart does not snap back to zero.
func WithRestAngle(deg float64) Option {
	return func(s *Simulator) {
		s.baseAngle = deg
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// Snapshot is the render state exposed to the presentation layer.
type Snapshot struct {
	SessionID    string   `json:"session_id"`
	State        string   `json:"state"`
	Participants []string `json:"participants"`
	Angle        float64  `json:"angle"`    // current absolute rotation in degrees
	Progress     float64  `json:"progress"` // eased progress in [0,1]
	Winner       string   `json:"winner,omitempty"` // populated once Done
}

// Simulator spins the wheel. One session at a time; re-entrant starts are
// rejected with sim.ErrActive.
type Simulator struct {
	mu        sync.Mutex
	sched     timing.Scheduler
	logger    logger.Logger
	fullSpins int
	duration  time.Duration

	// baseAngle is the absolute rotation left by the previous spin, so
	// repeated spins accumulate instead of snapping back to zero.
	baseAngle float64

	cur          *sim.Session
	participants []string
	winnerIndex  int
	fromAngle    float64
	toAngle      float64
	progress     float64
}

// New creates a wheel simulator with configuration options.
func New(sched timing.Scheduler, opts ...Option) *Simulator {
	s := &Simulator{
		sched:     sched,
		logger:    logger.Nop(),
		fullSpins: defaultFullSpins,
		duration:  defaultDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins one spin ending on participants[winnerIndex] and invokes
// onDone exactly once when the declared duration has elapsed.
func (s *Simulator) Start(participants []string, winnerIndex int, onDone func()) error {
	if len(participants) == 0 {
		return sim.ErrNoParticipants
	}
	if winnerIndex < 0 || winnerIndex >= len(participants) {
		return sim.ErrBadWinner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil && s.cur.Active() {
		return sim.ErrActive
	}

	segment := degreesPerTurn / float64(len(participants))
	center := float64(winnerIndex)*segment + segment/2

	delta := math.Mod(center-s.baseAngle, degreesPerTurn)
	if delta < 0 {
		delta += degreesPerTurn
	}
	if delta < minDelta {
		delta = degreesPerTurn
	}

	start := s.sched.Now()
	session := sim.NewSession(onDone, start)
	s.cur = session
	s.participants = append([]string(nil), participants...)
	s.winnerIndex = winnerIndex
	s.fromAngle = s.baseAngle
	s.toAngle = s.baseAngle + delta + degreesPerTurn*float64(s.fullSpins)
	s.progress = 0

	s.logger.Debug(context.Background(), "wheel spin started",
		logger.String("session", session.ID()),
		logger.Float64("from", s.fromAngle),
		logger.Float64("to", s.toAngle),
	)

	session.Track(s.sched.EveryFrame(func(now time.Time) bool {
		return s.step(session, start, now)
	}))
	return nil
}

// step advances one frame. Returns false to stop the frame loop.
func (s *Simulator) step(session *sim.Session, start, now time.Time) bool {
	if !session.Active() {
		return false
	}

	elapsed := now.Sub(start)
	t := sim.Clamp01(float64(elapsed) / float64(s.duration))

	s.mu.Lock()
	s.progress = sim.EaseOutCubic(t)
	s.mu.Unlock()

	if elapsed < s.duration {
		return true
	}

	// The spin ran its declared duration; rest exactly on the solved angle
	// and persist it as the baseline for the next spin.
	s.mu.Lock()
	s.baseAngle = s.toAngle
	s.progress = 1
	s.mu.Unlock()

	if session.Conclude() {
		session.Complete()
	}
	return false
}

// Cancel tears down the active session without invoking its callback.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	session := s.cur
	s.mu.Unlock()
	if session != nil {
		session.Cancel()
	}
}

// Snapshot returns the current render state. ok is false when no session
// has ever run.
func (s *Simulator) Snapshot() (snap Snapshot, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return Snapshot{}, false
	}

	state := s.cur.State()
	snap = Snapshot{
		SessionID:    s.cur.ID(),
		State:        state.String(),
		Participants: append([]string(nil), s.participants...),
		Angle:        s.fromAngle + (s.toAngle-s.fromAngle)*s.progress,
		Progress:     s.progress,
	}
	if state == sim.StateDone {
		snap.Winner = s.participants[s.winnerIndex]
	}
	return snap, true
}

// RestAngle returns the absolute angle the wheel last rested at.
func (s *Simulator) RestAngle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseAngle
}

// Active reports whether a session is currently running or concluding.
func (s *Simulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil && s.cur.Active()
}
