// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/classpick/classpick/internal/domain/model"
)

// HistoryDependencies defines the interface for draw record access.
type HistoryDependencies interface {
	History(ctx context.Context) []model.Entry
	ClearHistory(ctx context.Context) error
}

// HistoryHandler handles history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

type historyResponse struct {
	Entries []model.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// HandleHistory handles GET and DELETE /history requests.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	switch r.Method {
	case http.MethodGet:
		entries := h.deps.History(r.Context())
		writeJSON(w, http.StatusOK, historyResponse{Entries: entries, Count: len(entries)})

	case http.MethodDelete:
		if err := h.deps.ClearHistory(r.Context()); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, historyResponse{Entries: []model.Entry{}, Count: 0})

	default:
		http.NotFound(w, r)
	}
}
