package pool

import "errors"

// Sentinel kinds for draw errors.
var (
	ErrEmptyList = errors.New("no participants to draw from")
	ErrExhausted = errors.New("no-repeat pool exhausted")
)
