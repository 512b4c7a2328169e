// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// SessionDependencies defines the interface for animation session access.
type SessionDependencies interface {
	SessionView(ctx context.Context) (any, error)
	CancelSession(ctx context.Context) error
}

// SessionHandler handles animation session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleSession handles GET and DELETE /session requests. GET returns the
// current render snapshot; DELETE aborts the live session.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.session"
	switch r.Method {
	case http.MethodGet:
		view, err := h.deps.SessionView(r.Context())
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, view)

	case http.MethodDelete:
		if err := h.deps.CancelSession(r.Context()); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})

	default:
		http.NotFound(w, r)
	}
}
