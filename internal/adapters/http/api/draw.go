// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/classpick/classpick/internal/app"
)

// DrawDependencies defines the interface for draw operations.
type DrawDependencies interface {
	RequestDraw(ctx context.Context) (service.DrawResult, error)
}

// DrawHandler handles draw requests.
type DrawHandler struct {
	deps DrawDependencies
}

// NewDrawHandler creates a new draw handler.
func NewDrawHandler(deps DrawDependencies) *DrawHandler {
	return &DrawHandler{deps: deps}
}

// HandleDraw handles POST /draw requests. Synchronous modes answer with
// the finished record; interactive mode answers 202 with the session id.
func (h *DrawHandler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_draw"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	res, err := h.deps.RequestDraw(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	if res.Status == service.StatusAnimating {
		writeJSON(w, http.StatusAccepted, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
