package testdraws

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusCreated  = 201
	StatusAccepted = 202
	StatusConflict = 409
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	SessionPollInterval  = 250 * time.Millisecond
	SessionWaitLimit     = 30 * time.Second
	PercentageMultiplier = 100
)
