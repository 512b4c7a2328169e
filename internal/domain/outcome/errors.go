package outcome

import "errors"

// Sentinel kinds for draw decision errors.
var (
	ErrNoTasks     = errors.New("no tasks available for a paired draw")
	ErrUnknownMode = errors.New("unknown draw mode")
)
