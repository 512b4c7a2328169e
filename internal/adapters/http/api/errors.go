package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/classpick/classpick/internal/app"
	"github.com/classpick/classpick/internal/domain/group"
	"github.com/classpick/classpick/internal/domain/outcome"
	"github.com/classpick/classpick/internal/domain/pool"
	"github.com/classpick/classpick/internal/domain/roster"
)

// Sentinel kinds for API errors.
var (
	ErrServe      = errors.New("serve failed")
	ErrBadRequest = errors.New("bad request")
)

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel and keeps the underlying cause in the message.
func WrapKind(op string, kind error, cause error) error {
	return fmt.Errorf("%s: %w: %v", op, kind, cause)
}

// Wrap tags an upstream error with the operation that surfaced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// statusFor maps domain errors to HTTP status and error code. Unrecognized
// errors are treated as internal.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrDrawInProgress):
		return http.StatusConflict, "draw_in_progress"
	case errors.Is(err, pool.ErrExhausted):
		return http.StatusConflict, "pool_reset"
	case errors.Is(err, pool.ErrEmptyList):
		return http.StatusUnprocessableEntity, "empty_list"
	case errors.Is(err, outcome.ErrNoTasks):
		return http.StatusUnprocessableEntity, "no_tasks"
	case errors.Is(err, group.ErrInvalidCount),
		errors.Is(err, group.ErrInsufficientItems):
		return http.StatusUnprocessableEntity, "bad_groups"
	case errors.Is(err, roster.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, roster.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, roster.ErrEmptyName):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNoSession):
		return http.StatusNotFound, "no_session"
	case errors.Is(err, service.ErrInvalidSettings):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
