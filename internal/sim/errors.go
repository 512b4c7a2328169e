package sim

import "errors"

// Sentinel kinds for simulator errors.
var (
	ErrActive         = errors.New("a reveal session is already active")
	ErrNoParticipants = errors.New("no participants to animate")
	ErrBadWinner      = errors.New("winner index out of range")
)
