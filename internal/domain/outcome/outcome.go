// Package outcome fixes the result of a draw before any animation starts.
//
// The predeterminer owns the no-repeat pool state for the name and task
// lists. Simulators receive only the committed winner; they never re-derive
// randomness for who wins, only for how the reveal looks.
package outcome

import (
	"fmt"

	group "github.com/classpick/classpick/internal/domain/group"
	model "github.com/classpick/classpick/internal/domain/model"
	pool "github.com/classpick/classpick/internal/domain/pool"
)

// Request carries the state a draw decision needs.
type Request struct {
	Mode          model.Mode
	Names         []string
	Tasks         []string
	NoRepeatNames bool
	NoRepeatTasks bool
	GroupCount    int
}

// Predeterminer produces committed outcomes and tracks pool state across
// draws. Not safe for concurrent use; the orchestrator serializes access.
type Predeterminer struct {
	rng      pool.RNG
	namePool pool.Pool
	taskPool pool.Pool

	// onPoolReset is invoked with "names" or "tasks" whenever an exhausted
	// pool is refilled, so the caller can surface the reset.
	onPoolReset func(list string)
}

// Option applies a configuration option to the Predeterminer.
type Option func(*Predeterminer)

// WithRNG sets the random source.
func WithRNG(rng pool.RNG) Option {
	return func(p *Predeterminer) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithPoolResetHook registers a callback fired on automatic pool resets.
func WithPoolResetHook(hook func(list string)) Option {
	return func(p *Predeterminer) {
		if hook != nil {
			p.onPoolReset = hook
		}
	}
}

// New creates a Predeterminer with empty pools.
func New(opts ...Option) *Predeterminer {
	p := &Predeterminer{
		rng:         pool.NewRNG(),
		onPoolReset: func(string) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Next commits the outcome for one draw. The returned outcome is consumed
// exactly once: either finalized directly or handed to a simulator.
//
// An exhausted name pool resets as a side effect and the draw is deferred
// (the error propagates; the caller re-triggers against the fresh pool).
// An exhausted task pool in paired mode resets and retries within the same
// call, mirroring the asymmetric behavior users expect from the two lists.
func (p *Predeterminer) Next(req Request) (model.Outcome, error) {
	switch req.Mode {
	case model.ModeSingle, model.ModeInteractive:
		idx, err := p.drawName(req)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{Mode: req.Mode, WinnerIndex: idx, WinnerName: req.Names[idx]}, nil

	case model.ModePaired:
		if len(req.Tasks) == 0 {
			return model.Outcome{}, ErrNoTasks
		}
		idx, err := p.drawName(req)
		if err != nil {
			return model.Outcome{}, err
		}
		task, err := p.drawTask(req)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{
			Mode:        req.Mode,
			WinnerIndex: idx,
			WinnerName:  req.Names[idx],
			PairedTask:  task,
		}, nil

	case model.ModeGroups:
		groups, err := group.Partition(req.Names, req.GroupCount, p.rng)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{Mode: req.Mode, WinnerIndex: -1, Groups: groups}, nil

	default:
		return model.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
}

// drawName draws from the name list. On exhaustion the pool resets and the
// error still propagates; the caller must re-trigger the draw.
func (p *Predeterminer) drawName(req Request) (int, error) {
	idx, next, err := pool.Draw(req.Names, p.namePool, req.NoRepeatNames, p.rng)
	if err != nil {
		if err == pool.ErrExhausted {
			p.namePool = pool.Full(len(req.Names))
			p.onPoolReset("names")
		}
		return 0, fmt.Errorf("names: %w", err)
	}
	p.namePool = next
	return idx, nil
}

// drawTask draws from the task list, retrying once in the same call after
// an automatic reset.
func (p *Predeterminer) drawTask(req Request) (string, error) {
	idx, next, err := pool.Draw(req.Tasks, p.taskPool, req.NoRepeatTasks, p.rng)
	if err == pool.ErrExhausted {
		p.taskPool = pool.Full(len(req.Tasks))
		p.onPoolReset("tasks")
		idx, next, err = pool.Draw(req.Tasks, p.taskPool, req.NoRepeatTasks, p.rng)
	}
	if err != nil {
		return "", fmt.Errorf("tasks: %w", err)
	}
	p.taskPool = next
	return req.Tasks[idx], nil
}

// Pools returns the current name and task pools for persistence.
func (p *Predeterminer) Pools() (names, tasks pool.Pool) {
	return p.namePool, p.taskPool
}

// SetPools restores persisted pool state.
func (p *Predeterminer) SetPools(names, tasks pool.Pool) {
	p.namePool = names
	p.taskPool = tasks
}

// GrowNamePool admits a newly appended list index into the pool so fresh
// names are drawable before the next reset.
func (p *Predeterminer) GrowNamePool(idx int) {
	p.namePool = append(p.namePool, idx)
}

// GrowTaskPool admits a newly appended task index into the pool.
func (p *Predeterminer) GrowTaskPool(idx int) {
	p.taskPool = append(p.taskPool, idx)
}

// ResetNamePool refills the name pool for a list of length n.
func (p *Predeterminer) ResetNamePool(n int) {
	p.namePool = pool.Full(n)
}

// ResetTaskPool refills the task pool for a list of length n.
func (p *Predeterminer) ResetTaskPool(n int) {
	p.taskPool = pool.Full(n)
}
