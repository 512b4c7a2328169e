// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
//
// The service is the only writer of roster, pool, settings and history
// state. Draws are committed here before any animation starts; simulators
// receive the winner and only decide how the reveal looks.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	statestore "github.com/classpick/classpick/internal/adapters/statestore"
	"github.com/classpick/classpick/internal/domain/group"
	"github.com/classpick/classpick/internal/domain/history"
	"github.com/classpick/classpick/internal/domain/model"
	"github.com/classpick/classpick/internal/domain/outcome"
	"github.com/classpick/classpick/internal/domain/pool"
	"github.com/classpick/classpick/internal/domain/roster"
	simpkg "github.com/classpick/classpick/internal/sim"
	"github.com/classpick/classpick/internal/sim/cards"
	"github.com/classpick/classpick/internal/sim/race"
	"github.com/classpick/classpick/internal/sim/wheel"
	"github.com/classpick/classpick/pkg/logger"
	"github.com/classpick/classpick/pkg/metrics"
	"github.com/classpick/classpick/pkg/timing"
)

// Draw result statuses.
const (
	// StatusDone marks a draw whose outcome is already final.
	StatusDone = "done"
	// StatusAnimating marks a draw whose outcome is committed but concealed
	// until the animation session completes.
	StatusAnimating = "animating"
)

// Settings is the adjustable draw configuration.
type Settings struct {
	Mode          model.Mode   `json:"mode"`
	Visual        model.Visual `json:"visual"`
	NoRepeatNames bool         `json:"no_repeat_names"`
	NoRepeatTasks bool         `json:"no_repeat_tasks"`
	GroupCount    int          `json:"group_count"`
}

// Validate rejects settings the service cannot draw with.
func (s Settings) Validate() error {
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	if !s.Visual.Valid() {
		return fmt.Errorf("%w: unknown visual %q", ErrInvalidSettings, s.Visual)
	}
	if s.GroupCount < 2 {
		return fmt.Errorf("%w: group count must be at least 2", ErrInvalidSettings)
	}
	return nil
}

// DrawResult is what a draw request returns. Animated draws conceal the
// committed winner; it surfaces through the session snapshot and history
// only after the animation completes.
type DrawResult struct {
	Status    string       `json:"status"`
	Entry     *model.Entry `json:"entry,omitempty"`
	SessionID string       `json:"session_id,omitempty"`
	Visual    model.Visual `json:"visual,omitempty"`
}

// Service implements the API dependencies for the selection system.
type Service struct {
	mu sync.Mutex

	// Core components
	names  *roster.List
	tasks  *roster.List
	predet *outcome.Predeterminer
	hist   history.Log
	store  statestore.Store

	wheelSim  *wheel.Simulator
	duckSim   *race.Simulator
	marbleSim *race.Simulator
	cardSim   *cards.Simulator

	// Configuration
	sched        timing.Scheduler
	rng          pool.RNG
	cue          CuePlayer
	historyLimit int
	defaults     Settings
	wheelOpts    []wheel.Option
	raceOpts     []race.Option
	cardOpts     []cards.Option
	onOutcome    func(model.Entry)

	// State
	settings     Settings
	activeVisual model.Visual
	lastVisual   model.Visual
	sessionStart time.Time
	started      bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScheduler sets the timing source driving animations and persistence
// timestamps. Tests inject timing.Fake here.
func WithScheduler(sched timing.Scheduler) Option {
	return func(s *Service) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithStateStore sets the persistence backend.
func WithStateStore(store statestore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRNG sets the random source for outcome commitment.
func WithRNG(rng pool.RNG) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithCuePlayer sets the cue sink.
func WithCuePlayer(cue CuePlayer) Option {
	return func(s *Service) {
		if cue != nil {
			s.cue = cue
		}
	}
}

// WithHistoryLimit caps the retained draw records.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithDefaultSettings sets the settings applied when no saved state exists.
func WithDefaultSettings(settings Settings) Option {
	return func(s *Service) {
		s.defaults = settings
	}
}

// WithWheelOptions forwards options to the wheel simulator.
func WithWheelOptions(opts ...wheel.Option) Option {
	return func(s *Service) {
		s.wheelOpts = append(s.wheelOpts, opts...)
	}
}

// WithRaceOptions forwards options to both race simulators.
func WithRaceOptions(opts ...race.Option) Option {
	return func(s *Service) {
		s.raceOpts = append(s.raceOpts, opts...)
	}
}

// WithCardOptions forwards options to the card simulator.
func WithCardOptions(opts ...cards.Option) Option {
	return func(s *Service) {
		s.cardOpts = append(s.cardOpts, opts...)
	}
}

// WithOutcomeListener registers a callback fired after every finalized
// outcome. The listener must not call back into the service.
func WithOutcomeListener(fn func(model.Entry)) Option {
	return func(s *Service) {
		if fn != nil {
			s.onOutcome = fn
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		names:        roster.New(),
		tasks:        roster.New(),
		store:        statestore.NewMemory(),
		sched:        timing.NewWall(),
		rng:          pool.NewRNG(),
		cue:          NopCue{},
		historyLimit: history.DefaultLimit,
		defaults: Settings{
			Mode:          model.ModeSingle,
			Visual:        model.VisualWheel,
			NoRepeatNames: true,
			NoRepeatTasks: true,
			GroupCount:    2,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service, restoring persisted state when present.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting draw service...")

	s.predet = outcome.New(
		outcome.WithRNG(s.rng),
		outcome.WithPoolResetHook(func(list string) {
			metrics.RecordPoolReset(list)
			s.logger.Info(context.Background(), "no-repeat pool reset",
				logger.String("list", list),
			)
		}),
	)

	wheelAngle := s.restoreLocked(ctx)

	s.wheelSim = wheel.New(s.sched, append([]wheel.Option{
		wheel.WithLogger(s.logger),
		wheel.WithRestAngle(wheelAngle),
	}, s.wheelOpts...)...)
	s.duckSim = race.New(s.sched, race.Duck, append([]race.Option{
		race.WithLogger(s.logger),
		race.WithRNG(s.rng),
		race.WithFinishHook(func() { s.cue.Play(context.Background(), CueRaceFinish) }),
	}, s.raceOpts...)...)
	s.marbleSim = race.New(s.sched, race.Marble, append([]race.Option{
		race.WithLogger(s.logger),
		race.WithRNG(s.rng),
		race.WithFinishHook(func() { s.cue.Play(context.Background(), CueRaceFinish) }),
	}, s.raceOpts...)...)
	s.cardSim = cards.New(s.sched, append([]cards.Option{
		cards.WithLogger(s.logger),
		cards.WithRNG(s.rng),
		cards.WithRevealHook(func() { s.cue.Play(context.Background(), CueCardReveal) }),
	}, s.cardOpts...)...)

	s.started = true
	s.publishSizesLocked()
	s.logger.Info(ctx, "draw service started",
		logger.Int("names", s.names.Len()),
		logger.Int("tasks", s.tasks.Len()),
		logger.Int("history", s.hist.Len()),
		logger.String("mode", string(s.settings.Mode)),
		logger.String("visual", string(s.settings.Visual)),
	)
	return nil
}

// restoreLocked loads persisted state, falling back to defaults on a
// missing or unreadable blob. Returns the wheel rest angle to seed.
func (s *Service) restoreLocked(ctx context.Context) float64 {
	s.settings = s.defaults
	s.hist = history.New(s.historyLimit)
	s.predet.ResetNamePool(0)
	s.predet.ResetTaskPool(0)

	st, found, err := s.store.Load(ctx)
	if err != nil {
		metrics.RecordStateLoadError()
		s.logger.Warn(ctx, "stored state unreadable, starting fresh",
			logger.Error(err),
		)
		return 0
	}
	if !found {
		return 0
	}

	s.names.Replace(st.Names)
	s.tasks.Replace(st.Tasks)
	s.predet.SetPools(st.NamePool, st.TaskPool)
	s.hist = history.Restore(st.History, s.historyLimit)

	restored := Settings{
		Mode:          st.Mode,
		Visual:        st.Visual,
		NoRepeatNames: st.NoRepeatNames,
		NoRepeatTasks: st.NoRepeatTasks,
		GroupCount:    st.GroupCount,
	}
	if restored.Validate() == nil {
		s.settings = restored
	}
	return st.WheelAngle
}

// Stop cancels any live animation and persists state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping draw service...")

	if sim := s.simulatorLocked(s.activeVisual); sim != nil {
		sim.Cancel()
	}
	s.activeVisual = ""
	s.saveLocked(ctx)

	s.started = false
	s.logger.Info(ctx, "draw service stopped")
}

// runner is the lifecycle surface every simulator exposes.
type runner interface {
	Start(participants []string, winnerIndex int, onDone func()) error
	Cancel()
	Active() bool
}

// simulatorLocked maps a visual to its simulator. Nil for the zero visual.
func (s *Service) simulatorLocked(v model.Visual) runner {
	switch v {
	case model.VisualWheel:
		return s.wheelSim
	case model.VisualRaceDuck:
		return s.duckSim
	case model.VisualRaceMarble:
		return s.marbleSim
	case model.VisualCards:
		return s.cardSim
	}
	return nil
}

// RequestDraw commits and, depending on mode, finalizes one draw.
//
// Non-interactive modes return a finished history entry. Interactive mode
// starts an animation session and returns only its id; the outcome stays
// concealed until the session completes.
func (s *Service) RequestDraw(ctx context.Context) (DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return DrawResult{}, ErrNotStarted
	}
	if sim := s.simulatorLocked(s.activeVisual); sim != nil && sim.Active() {
		metrics.RecordSessionRejected()
		return DrawResult{}, ErrDrawInProgress
	}

	req := outcome.Request{
		Mode:          s.settings.Mode,
		Names:         s.names.Names(),
		Tasks:         s.tasks.Names(),
		NoRepeatNames: s.settings.NoRepeatNames,
		NoRepeatTasks: s.settings.NoRepeatTasks,
		GroupCount:    s.settings.GroupCount,
	}

	o, err := s.predet.Next(req)
	if err != nil {
		metrics.RecordDrawError(errorKind(err))
		s.publishSizesLocked()
		s.saveLocked(ctx)
		return DrawResult{}, err
	}
	s.publishSizesLocked()

	if s.settings.Mode != model.ModeInteractive {
		entry := s.finalizeLocked(ctx, o)
		return DrawResult{Status: StatusDone, Entry: &entry}, nil
	}

	visual := s.settings.Visual
	sim := s.simulatorLocked(visual)
	if err := sim.Start(req.Names, o.WinnerIndex, func() {
		s.completeSession(o)
	}); err != nil {
		if errors.Is(err, simpkg.ErrActive) {
			metrics.RecordSessionRejected()
			return DrawResult{}, ErrDrawInProgress
		}
		metrics.RecordDrawError("session_start")
		return DrawResult{}, err
	}

	s.activeVisual = visual
	s.lastVisual = visual
	s.sessionStart = s.sched.Now()
	metrics.RecordSessionStarted(string(visual))
	s.saveLocked(ctx)

	s.logger.Info(ctx, "animation session started",
		logger.String("visual", string(visual)),
		logger.String("session", s.sessionIDLocked(visual)),
	)
	return DrawResult{
		Status:    StatusAnimating,
		SessionID: s.sessionIDLocked(visual),
		Visual:    visual,
	}, nil
}

// sessionIDLocked reads the current session id off a visual's simulator.
func (s *Service) sessionIDLocked(v model.Visual) string {
	switch v {
	case model.VisualWheel:
		if snap, ok := s.wheelSim.Snapshot(); ok {
			return snap.SessionID
		}
	case model.VisualRaceDuck:
		if snap, ok := s.duckSim.Snapshot(); ok {
			return snap.SessionID
		}
	case model.VisualRaceMarble:
		if snap, ok := s.marbleSim.Snapshot(); ok {
			return snap.SessionID
		}
	case model.VisualCards:
		if snap, ok := s.cardSim.Snapshot(); ok {
			return snap.SessionID
		}
	}
	return ""
}

// completeSession finalizes an animated draw. Invoked from the simulator's
// completion callback.
func (s *Service) completeSession(o model.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	visual := s.activeVisual
	s.activeVisual = ""

	durationMS := float64(s.sched.Now().Sub(s.sessionStart)) / float64(time.Millisecond)
	metrics.RecordSessionCompleted(string(visual), durationMS)

	entry := s.finalizeLocked(ctx, o)
	s.logger.Info(ctx, "animation session completed",
		logger.String("visual", string(visual)),
		logger.String("result", entry.Result),
	)
}

// finalizeLocked appends the outcome to history, fires the commit cue and
// persists.
func (s *Service) finalizeLocked(ctx context.Context, o model.Outcome) model.Entry {
	entry := model.NewEntry(o, s.sched.Now())
	s.hist = s.hist.Append(entry)
	metrics.RecordDraw(string(o.Mode))
	metrics.UpdateHistorySize(s.hist.Len())

	s.cue.Play(ctx, CueDrawCommit)
	s.saveLocked(ctx)

	if s.onOutcome != nil {
		s.onOutcome(entry)
	}
	return entry
}

// CancelSession aborts the live animation session without recording an
// outcome.
func (s *Service) CancelSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	sim := s.simulatorLocked(s.activeVisual)
	if sim == nil || !sim.Active() {
		return ErrNoSession
	}

	visual := s.activeVisual
	sim.Cancel()
	s.activeVisual = ""
	metrics.RecordSessionCancelled(string(visual))
	s.logger.Info(ctx, "animation session cancelled",
		logger.String("visual", string(visual)),
	)
	return nil
}

// SessionView returns the last session's render snapshot. The concrete
// type depends on the visual that ran it.
func (s *Service) SessionView(_ context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	switch s.lastVisual {
	case model.VisualWheel:
		if snap, ok := s.wheelSim.Snapshot(); ok {
			return snap, nil
		}
	case model.VisualRaceDuck:
		if snap, ok := s.duckSim.Snapshot(); ok {
			return snap, nil
		}
	case model.VisualRaceMarble:
		if snap, ok := s.marbleSim.Snapshot(); ok {
			return snap, nil
		}
	case model.VisualCards:
		if snap, ok := s.cardSim.Snapshot(); ok {
			return snap, nil
		}
	}
	return nil, ErrNoSession
}

// AddName appends a participant and admits it into the no-repeat pool.
func (s *Service) AddName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := s.names.Add(name); err != nil {
		return err
	}
	s.predet.GrowNamePool(s.names.Len() - 1)
	s.publishSizesLocked()
	s.saveLocked(ctx)
	return nil
}

// RemoveName deletes a participant. Pool indices referencing positions past
// the new length are pruned lazily at the next draw.
func (s *Service) RemoveName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if _, err := s.names.Remove(name); err != nil {
		return err
	}
	s.publishSizesLocked()
	s.saveLocked(ctx)
	return nil
}

// ClearNames drops the whole participant list and its pool.
func (s *Service) ClearNames(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	s.names.Replace(nil)
	s.predet.ResetNamePool(0)
	s.publishSizesLocked()
	s.saveLocked(ctx)
	return nil
}

// AddTask appends a task and admits it into the no-repeat pool.
func (s *Service) AddTask(ctx context.Context, task string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := s.tasks.Add(task); err != nil {
		return err
	}
	s.predet.GrowTaskPool(s.tasks.Len() - 1)
	s.publishSizesLocked()
	s.saveLocked(ctx)
	return nil
}

// RemoveTask deletes a task.
func (s *Service) RemoveTask(ctx context.Context, task string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if _, err := s.tasks.Remove(task); err != nil {
		return err
	}
	s.publishSizesLocked()
	s.saveLocked(ctx)
	return nil
}

// ClearTasks drops the whole task list and its pool.
func (s *Service) ClearTasks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	s.tasks.Replace(nil)
	s.predet.ResetTaskPool(0)
	s.publishSizesLocked()
	s.saveLocked(ctx)
	return nil
}

// Names returns the participant list in order.
func (s *Service) Names(_ context.Context) []string {
	return s.names.Names()
}

// Tasks returns the task list in order.
func (s *Service) Tasks(_ context.Context) []string {
	return s.tasks.Names()
}

// ResetPool refills a no-repeat pool on demand. list is "names" or "tasks".
func (s *Service) ResetPool(ctx context.Context, list string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	switch list {
	case "names":
		s.predet.ResetNamePool(s.names.Len())
	case "tasks":
		s.predet.ResetTaskPool(s.tasks.Len())
	default:
		return fmt.Errorf("%w: unknown pool %q", ErrInvalidSettings, list)
	}
	metrics.RecordPoolReset(list)
	s.publishSizesLocked()
	s.saveLocked(ctx)
	return nil
}

// Settings returns the current draw settings.
func (s *Service) Settings(_ context.Context) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the draw settings. Rejected while an animation
// session is live. Turning a no-repeat flag on refills that pool.
func (s *Service) UpdateSettings(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if sim := s.simulatorLocked(s.activeVisual); sim != nil && sim.Active() {
		return ErrDrawInProgress
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if settings.NoRepeatNames && !s.settings.NoRepeatNames {
		s.predet.ResetNamePool(s.names.Len())
	}
	if settings.NoRepeatTasks && !s.settings.NoRepeatTasks {
		s.predet.ResetTaskPool(s.tasks.Len())
	}
	s.settings = settings
	s.publishSizesLocked()
	s.saveLocked(ctx)

	s.logger.Info(ctx, "settings updated",
		logger.String("mode", string(settings.Mode)),
		logger.String("visual", string(settings.Visual)),
		logger.Int("groups", settings.GroupCount),
	)
	return nil
}

// History returns the retained draw records, newest first.
func (s *Service) History(_ context.Context) []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Entries()
}

// ClearHistory drops all draw records.
func (s *Service) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	s.hist = history.New(s.historyLimit)
	metrics.UpdateHistorySize(0)
	s.saveLocked(ctx)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	namePool, taskPool := pool.Pool{}, pool.Pool{}
	if s.predet != nil {
		namePool, taskPool = s.predet.Pools()
	}

	stats := map[string]interface{}{
		"started":           s.started,
		"names":             s.names.Len(),
		"tasks":             s.tasks.Len(),
		"historyEntries":    s.hist.Len(),
		"namePoolRemaining": len(namePool.Prune(s.names.Len())),
		"taskPoolRemaining": len(taskPool.Prune(s.tasks.Len())),
		"mode":              string(s.settings.Mode),
		"visual":            string(s.settings.Visual),
		"sessionActive":     false,
	}
	if sim := s.simulatorLocked(s.activeVisual); sim != nil && sim.Active() {
		stats["sessionActive"] = true
		stats["sessionVisual"] = string(s.activeVisual)
	}
	if s.started {
		s.publishSizesLocked()
	}
	return stats
}

// publishSizesLocked pushes roster, pool and history gauges.
func (s *Service) publishSizesLocked() {
	metrics.UpdateRosterSize("names", s.names.Len())
	metrics.UpdateRosterSize("tasks", s.tasks.Len())
	metrics.UpdateHistorySize(s.hist.Len())
	if s.predet != nil {
		namePool, taskPool := s.predet.Pools()
		metrics.UpdatePoolRemaining("names", len(namePool.Prune(s.names.Len())))
		metrics.UpdatePoolRemaining("tasks", len(taskPool.Prune(s.tasks.Len())))
	}
}

// saveLocked persists the full state blob.
func (s *Service) saveLocked(ctx context.Context) {
	if s.store == nil {
		return
	}

	namePool, taskPool := s.predet.Pools()
	st := statestore.State{
		Names:         s.names.Names(),
		Tasks:         s.tasks.Names(),
		NamePool:      namePool,
		TaskPool:      taskPool,
		Mode:          s.settings.Mode,
		Visual:        s.settings.Visual,
		NoRepeatNames: s.settings.NoRepeatNames,
		NoRepeatTasks: s.settings.NoRepeatTasks,
		GroupCount:    s.settings.GroupCount,
		History:       s.hist.Entries(),
	}
	if s.wheelSim != nil {
		st.WheelAngle = s.wheelSim.RestAngle()
	}

	if err := s.store.Save(ctx, st); err != nil {
		metrics.RecordStateSaveError()
		s.logger.Warn(ctx, "state save failed", logger.Error(err))
		return
	}
	metrics.RecordStateSave()
}

// errorKind buckets draw errors for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, pool.ErrEmptyList):
		return "empty_list"
	case errors.Is(err, pool.ErrExhausted):
		return "pool_exhausted"
	case errors.Is(err, outcome.ErrNoTasks):
		return "no_tasks"
	case errors.Is(err, outcome.ErrUnknownMode):
		return "unknown_mode"
	case errors.Is(err, group.ErrInvalidCount), errors.Is(err, group.ErrInsufficientItems):
		return "bad_groups"
	default:
		return "internal"
	}
}
