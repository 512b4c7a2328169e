package service

import "errors"

// Sentinel kinds for orchestration errors.
var (
	// ErrDrawInProgress rejects a draw while an animated session is live.
	ErrDrawInProgress = errors.New("a draw is already in progress")
	// ErrNotStarted rejects operations before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoSession is returned when no animation session exists to inspect
	// or cancel.
	ErrNoSession = errors.New("no animation session")
	// ErrInvalidSettings rejects settings updates that fail validation.
	ErrInvalidSettings = errors.New("invalid settings")
)
