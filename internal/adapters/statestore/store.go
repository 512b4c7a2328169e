// Package statestore persists rosters, settings and draw history between
// process restarts.
package statestore

import (
	"context"

	"github.com/classpick/classpick/internal/domain/model"
	"github.com/classpick/classpick/internal/domain/pool"
)

// State is the serializable application state blob.
type State struct {
	Names []string `json:"names"`
	Tasks []string `json:"tasks"`

	// Remaining no-repeat pools, stored as indices into the lists above.
	NamePool pool.Pool `json:"name_pool"`
	TaskPool pool.Pool `json:"task_pool"`

	Mode          model.Mode   `json:"mode"`
	Visual        model.Visual `json:"visual"`
	NoRepeatNames bool         `json:"no_repeat_names"`
	NoRepeatTasks bool         `json:"no_repeat_tasks"`
	GroupCount    int          `json:"group_count"`

	// WheelAngle is the wheel's rest rotation, preserved so the wheel does
	// not snap back to zero after a restart.
	WheelAngle float64 `json:"wheel_angle"`

	History []model.Entry `json:"history"`
}

// Store provides read/write access to the persisted application state.
type Store interface {
	// Save overwrites the persisted state.
	Save(ctx context.Context, s State) error

	// Load returns the persisted state. found is false when nothing has
	// been saved yet; a non-nil error means the stored blob is unreadable.
	Load(ctx context.Context) (s State, found bool, err error)
}
