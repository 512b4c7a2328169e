// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// PoolsDependencies defines the interface for no-repeat pool control.
type PoolsDependencies interface {
	ResetPool(ctx context.Context, list string) error
}

// PoolsHandler handles pool reset requests.
type PoolsHandler struct {
	deps PoolsDependencies
}

// NewPoolsHandler creates a new pools handler.
func NewPoolsHandler(deps PoolsDependencies) *PoolsHandler {
	return &PoolsHandler{deps: deps}
}

// HandleReset handles POST /pools/reset?list=names|tasks requests.
func (h *PoolsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.pools_reset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	list := r.URL.Query().Get("list")
	if list == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.ResetPool(r.Context(), list); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "list": list})
}
