// Package race animates lane races (duck and marble) that a predetermined
// winner always finishes first.
//
// Non-winner kinematics are drawn at random, then the winner's are derived
// to be strictly better. A post-condition check enforces the ordering after
// generation, so the guarantee never rests on particular constants.
package race

import (
	"context"
	"math"
	"sync"
	"time"

	pool "github.com/classpick/classpick/internal/domain/pool"
	sim "github.com/classpick/classpick/internal/sim"
	logger "github.com/classpick/classpick/pkg/logger"
	timing "github.com/classpick/classpick/pkg/timing"
)

// Variant selects how winner bias is applied.
type Variant string

// Race variants.
const (
	// Duck fixes the winner at the base traversal duration and slows every
	// other lane by a random extra.
	Duck Variant = "duck"
	// Marble draws random lane speeds and boosts the winner past the
	// fastest of them.
	Marble Variant = "marble"
)

// Default race configuration constants.
const (
	defaultBaseDuration = 3 * time.Second
	defaultExtraRange   = 1500 * time.Millisecond
	defaultMinGap       = 120 * time.Millisecond
	defaultSpeedMin     = 0.75
	defaultSpeedMax     = 1.25
	defaultBoost        = 1.08
	defaultMinElapsed   = time.Second
	defaultCelebration  = 1500 * time.Millisecond
	defaultWobbleAmp    = 0.02
	defaultWobbleHz     = 2.5

	// maxWobbleAmp bounds the wobble so the eased position plus wobble can
	// never cross the finish line ahead of the lane's real duration.
	maxWobbleAmp = 0.2
)

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithBaseDuration sets the winner's traversal time (duck) or the nominal
// unit-speed traversal time (marble).
func WithBaseDuration(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.baseDuration = d
		}
	}
}

// WithExtraRange sets the random slowdown range for duck non-winners.
func WithExtraRange(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.extraRange = d
		}
	}
}

// WithSpeedRange sets the random speed range for marble non-winners.
func WithSpeedRange(minSpeed, maxSpeed float64) Option {
	return func(s *Simulator) {
		if minSpeed > 0 && maxSpeed > minSpeed {
			s.speedMin = minSpeed
			s.speedMax = maxSpeed
		}
	}
}

// WithBoost sets the winner's speed multiplier over the fastest non-winner.
func WithBoost(f float64) Option {
	return func(s *Simulator) {
		if f > 1 {
			s.boost = f
		}
	}
}

// WithMinElapsed sets the floor below which the race may not conclude.
func WithMinElapsed(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.minElapsed = d
		}
	}
}

// WithCelebration sets how long the winner display holds before Done.
func WithCelebration(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.celebration = d
		}
	}
}

// WithWobble sets the amplitude of the cosmetic positional wobble.
func WithWobble(amp float64) Option {
	return func(s *Simulator) {
		if amp >= 0 && amp <= maxWobbleAmp {
			s.wobbleAmp = amp
		}
	}
}

// WithRNG sets the random source for lane kinematics.
func WithRNG(rng pool.RNG) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithFinishHook registers a callback fired the moment the winner crosses
// the line (start of the celebration hold).
func WithFinishHook(hook func()) Option {
	return func(s *Simulator) {
		if hook != nil {
			s.onFinish = hook
		}
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

// Lane is the render state of one racer.
type Lane struct {
	Name     string  `json:"name"`
	Progress float64 `json:"progress"` // displayed position in [0,1]
	Finished bool    `json:"finished"`
}

// Snapshot is the render state exposed to the presentation layer.
type Snapshot struct {
	SessionID string  `json:"session_id"`
	State     string  `json:"state"`
	Variant   Variant `json:"variant"`
	Lanes     []Lane  `json:"lanes"`
	Winner    string  `json:"winner,omitempty"` // populated from Concluding on
}

// Simulator runs one lane race at a time.
type Simulator struct {
	mu     sync.Mutex
	sched  timing.Scheduler
	logger logger.Logger
	rng    pool.RNG

	variant      Variant
	baseDuration time.Duration
	extraRange   time.Duration
	minGap       time.Duration
	speedMin     float64
	speedMax     float64
	boost        float64
	minElapsed   time.Duration
	celebration  time.Duration
	wobbleAmp    float64
	onFinish     func()

	cur         *sim.Session
	names       []string
	durations   []time.Duration
	winnerIndex int
	elapsed     time.Duration
}

// New creates a race simulator for the given variant.
func New(sched timing.Scheduler, variant Variant, opts ...Option) *Simulator {
	s := &Simulator{
		sched:        sched,
		logger:       logger.Nop(),
		rng:          pool.NewRNG(),
		variant:      variant,
		baseDuration: defaultBaseDuration,
		extraRange:   defaultExtraRange,
		minGap:       defaultMinGap,
		speedMin:     defaultSpeedMin,
		speedMax:     defaultSpeedMax,
		boost:        defaultBoost,
		minElapsed:   defaultMinElapsed,
		celebration:  defaultCelebration,
		wobbleAmp:    defaultWobbleAmp,
		onFinish:     func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a race ending on participants[winnerIndex]. onDone fires
// exactly once, after the winner crosses and the celebration hold passes.
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

	durations := s.assignDurations(len(participants), winnerIndex)
	enforceWinnerFirst(durations, winnerIndex, s.minGap)

	start := s.sched.Now()
	session := sim.NewSession(onDone, start)
	s.cur = session
	s.names = append([]string(nil), participants...)
	s.durations = durations
	s.winnerIndex = winnerIndex
	s.elapsed = 0

	s.logger.Debug(context.Background(), "race started",
		logger.String("session", session.ID()),
		logger.String("variant", string(s.variant)),
		logger.Int("lanes", len(participants)),
	)

	session.Track(s.sched.EveryFrame(func(now time.Time) bool {
		return s.step(session, start, now)
	}))
	return nil
}

// assignDurations generates per-lane traversal durations with the variant's
// winner bias.
func (s *Simulator) assignDurations(n, winnerIndex int) []time.Duration {
	durations := make([]time.Duration, n)

	switch s.variant {
	case Marble:
		// Random speeds for everyone else, then boost the winner past the
		// fastest of them. Duration is nominal distance over speed.
		speeds := make([]float64, n)
		fastest := 0.0
		for i := range speeds {
			if i == winnerIndex {
				continue
			}
			speeds[i] = s.speedMin + s.rng.Float64()*(s.speedMax-s.speedMin)
			if speeds[i] > fastest {
				fastest = speeds[i]
			}
		}
		if fastest == 0 {
			fastest = s.speedMax // single-lane race
		}
		speeds[winnerIndex] = fastest * s.boost
		for i, speed := range speeds {
			durations[i] = time.Duration(float64(s.baseDuration) / speed)
		}

	default: // Duck
		// The winner holds the base duration; everyone else picks up a
		// strictly positive random extra.
		for i := range durations {
			if i == winnerIndex {
				durations[i] = s.baseDuration
				continue
			}
			extra := s.minGap + time.Duration(s.rng.Float64()*float64(s.extraRange))
			durations[i] = s.baseDuration + extra
		}
	}
	return durations
}

// enforceWinnerFirst is the hard post-condition: whatever the random draws
// produced, every non-winner must be strictly slower than the winner.
func enforceWinnerFirst(durations []time.Duration, winnerIndex int, minGap time.Duration) {
	winner := durations[winnerIndex]
	for i := range durations {
		if i == winnerIndex {
			continue
		}
		if durations[i] <= winner {
			durations[i] = winner + minGap
		}
	}
}

// step advances one frame. Returns false to stop the frame loop.
func (s *Simulator) step(session *sim.Session, start, now time.Time) bool {
	if !session.Active() {
		return false
	}

	elapsed := now.Sub(start)
	s.mu.Lock()
	s.elapsed = elapsed
	winnerDone := elapsed >= s.durations[s.winnerIndex]
	floorPassed := elapsed >= s.minElapsed
	celebration := s.celebration
	s.mu.Unlock()

	if !winnerDone || !floorPassed {
		return true
	}

	if session.Conclude() {
		s.onFinish()
		session.Track(s.sched.AfterFunc(celebration, func() {
			session.Complete()
		}))
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
		SessionID: s.cur.ID(),
		State:     state.String(),
		Variant:   s.variant,
		Lanes:     make([]Lane, len(s.names)),
	}
	for i, name := range s.names {
		snap.Lanes[i] = Lane{
			Name:     name,
			Progress: s.displayProgress(i),
			Finished: s.elapsed >= s.durations[i],
		}
	}
	if state == sim.StateConcluding || state == sim.StateDone {
		snap.Winner = s.names[s.winnerIndex]
	}
	return snap, true
}

// displayProgress maps a lane's elapsed fraction through easing plus a
// cosmetic wobble. The wobble envelope is zero at both ends of the lane,
// so it can never push anyone across the line early or change finishing
// order; finish detection uses raw durations only. Caller holds the lock.
func (s *Simulator) displayProgress(i int) float64 {
	raw := sim.Clamp01(float64(s.elapsed) / float64(s.durations[i]))
	eased := sim.EaseInOutQuad(raw)
	envelope := 4 * eased * (1 - eased)
	phase := float64(i) * math.Pi / 3
	wobble := s.wobbleAmp * envelope * math.Sin(2*math.Pi*defaultWobbleHz*s.elapsed.Seconds()+phase)
	return sim.Clamp01(eased + wobble)
}

// Winner reports the committed winner's durations for verification in
// tests and diagnostics: the winner's own duration and the fastest
// non-winner duration.
func (s *Simulator) Winner() (winner time.Duration, bestOther time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.durations) == 0 {
		return 0, 0
	}
	winner = s.durations[s.winnerIndex]
	bestOther = time.Duration(math.MaxInt64)
	for i, d := range s.durations {
		if i != s.winnerIndex && d < bestOther {
			bestOther = d
		}
	}
	return winner, bestOther
}

// Active reports whether a session is currently running or concluding.
func (s *Simulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil && s.cur.Active()
}
