// Package cards animates a three-card pick whose face-down cards conceal a
// predetermined winner.
//
// The deck shuffles, one card slides out, and its face turns up to show the
// winner's name. The chosen card position is cosmetic; the name behind it
// was committed before the animation began.
package cards

import (
	"context"
	"sync"
	"time"

	pool "github.com/classpick/classpick/internal/domain/pool"
	sim "github.com/classpick/classpick/internal/sim"
	logger "github.com/classpick/classpick/pkg/logger"
	timing "github.com/classpick/classpick/pkg/timing"
)

// Phase names the animation stage within a running session.
type Phase string

// Animation phases, in order.
const (
	PhaseShuffling Phase = "shuffling"
	PhasePicking   Phase = "picking"
	PhaseRevealed  Phase = "revealed"
)

// Default timeline constants.
const (
	defaultCardCount       = 3
	defaultShuffleDuration = 2 * time.Second
	defaultPickDuration    = time.Second
	defaultRevealHold      = 2 * time.Second
)

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithCardCount sets how many face-down cards are dealt.
func WithCardCount(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.cardCount = n
		}
	}
}

// WithShuffleDuration sets the length of the shuffle stage.
func WithShuffleDuration(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.shuffleDuration = d
		}
	}
}

// WithPickDuration sets the length of the card slide-out stage.
func WithPickDuration(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.pickDuration = d
		}
	}
}

// WithRevealHold sets how long the turned card holds before Done.
func WithRevealHold(d time.Duration) Option {
	return func(s *Simulator) {
		if d >= 0 {
			s.revealHold = d
		}
	}
}

// WithRNG sets the random source for the cosmetic card position.
func WithRNG(rng pool.RNG) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithRevealHook registers a callback fired the moment the card turns up.
func WithRevealHook(hook func()) Option {
	return func(s *Simulator) {
		if hook != nil {
			s.onReveal = hook
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

// Card is the render state of one card on the table.
type Card struct {
	Chosen bool   `json:"chosen"`
	FaceUp bool   `json:"face_up"`
	Label  string `json:"label,omitempty"` // set only once the card is face up
}

// Snapshot is the render state exposed to the presentation layer.
type Snapshot struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Phase     Phase  `json:"phase,omitempty"`
	Cards     []Card `json:"cards"`
	Winner    string `json:"winner,omitempty"` // populated once revealed
}

// Simulator runs one card pick at a time.
type Simulator struct {
	mu     sync.Mutex
	sched  timing.Scheduler
	logger logger.Logger
	rng    pool.RNG

	cardCount       int
	shuffleDuration time.Duration
	pickDuration    time.Duration
	revealHold      time.Duration
	onReveal        func()

	cur         *sim.Session
	phase       Phase
	winnerName  string
	chosenCard  int
	revealedYet bool
}

// New creates a card simulator with configuration options.
func New(sched timing.Scheduler, opts ...Option) *Simulator {
	s := &Simulator{
		sched:           sched,
		logger:          logger.Nop(),
		rng:             pool.NewRNG(),
		cardCount:       defaultCardCount,
		shuffleDuration: defaultShuffleDuration,
		pickDuration:    defaultPickDuration,
		revealHold:      defaultRevealHold,
		onReveal:        func() {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins one pick ending on participants[winnerIndex]. The timeline is
// fixed: shuffle, slide a card out, turn it face up (firing the reveal hook),
// hold, then invoke onDone exactly once.
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

	session := sim.NewSession(onDone, s.sched.Now())
	s.cur = session
	s.phase = PhaseShuffling
	s.winnerName = participants[winnerIndex]
	s.chosenCard = s.rng.Intn(s.cardCount)
	s.revealedYet = false

	s.logger.Debug(context.Background(), "card pick started",
		logger.String("session", session.ID()),
		logger.Int("card", s.chosenCard),
	)

	pickAt := s.shuffleDuration
	revealAt := pickAt + s.pickDuration
	doneAt := revealAt + s.revealHold

	session.Track(s.sched.AfterFunc(pickAt, func() {
		s.enterPhase(session, PhasePicking)
	}))
	session.Track(s.sched.AfterFunc(revealAt, func() {
		if s.enterPhase(session, PhaseRevealed) {
			if session.Conclude() {
				s.onReveal()
			}
		}
	}))
	session.Track(s.sched.AfterFunc(doneAt, func() {
		session.Complete()
	}))
	return nil
}

// enterPhase moves the animation forward if the session is still live.
func (s *Simulator) enterPhase(session *sim.Session, p Phase) bool {
	if !session.Active() {
		return false
	}
	s.mu.Lock()
	s.phase = p
	if p == PhaseRevealed {
		s.revealedYet = true
	}
	s.mu.Unlock()
	return true
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
		Cards:     make([]Card, s.cardCount),
	}
	if state == sim.StateRunning || state == sim.StateConcluding {
		snap.Phase = s.phase
	}
	for i := range snap.Cards {
		chosen := i == s.chosenCard && s.phase != PhaseShuffling
		snap.Cards[i] = Card{Chosen: chosen}
		if chosen && s.revealedYet {
			snap.Cards[i].FaceUp = true
			snap.Cards[i].Label = s.winnerName
		}
	}
	if s.revealedYet && state != sim.StateCancelled {
		snap.Winner = s.winnerName
	}
	return snap, true
}

// Active reports whether a session is currently running or concluding.
func (s *Simulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil && s.cur.Active()
}
