package group

import "errors"

// Sentinel kinds for partition errors.
var (
	ErrInvalidCount      = errors.New("group count must be at least 1")
	ErrInsufficientItems = errors.New("not enough items for the requested group count")
)
