// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// listItemRequest mirrors the OpenAPI schema for POST /names and /tasks.
type listItemRequest struct {
	Value string `json:"value"`
}

func (l listItemRequest) validate() error {
	if strings.TrimSpace(l.Value) == "" {
		return errors.New("missing value")
	}
	return nil
}

type listResponse struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// ListHandler handles one roster list (names or tasks). Both lists share
// the same verb surface; only the backing operations differ.
type ListHandler struct {
	list   func(ctx context.Context) []string
	add    func(ctx context.Context, v string) error
	remove func(ctx context.Context, v string) error
	clear  func(ctx context.Context) error
	op     string
}

// NewNamesHandler creates the handler backing /names.
func NewNamesHandler(deps Dependencies) *ListHandler {
	return &ListHandler{
		list:   deps.Names,
		add:    deps.AddName,
		remove: deps.RemoveName,
		clear:  deps.ClearNames,
		op:     "api.names",
	}
}

// NewTasksHandler creates the handler backing /tasks.
func NewTasksHandler(deps Dependencies) *ListHandler {
	return &ListHandler{
		list:   deps.Tasks,
		add:    deps.AddTask,
		remove: deps.RemoveTask,
		clear:  deps.ClearTasks,
		op:     "api.tasks",
	}
}

// HandleList handles GET, POST and DELETE requests for the list.
// DELETE removes the item named by ?value=, or clears the whole list when
// the parameter is absent.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items := h.list(r.Context())
		writeJSON(w, http.StatusOK, listResponse{Items: items, Count: len(items)})

	case http.MethodPost:
		var req listItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(h.op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(h.op, ErrBadRequest, err))
			return
		}
		if err := h.add(r.Context(), req.Value); err != nil {
			writeDomainError(w, h.op, err)
			return
		}
		items := h.list(r.Context())
		writeJSON(w, http.StatusCreated, listResponse{Items: items, Count: len(items)})

	case http.MethodDelete:
		value := r.URL.Query().Get("value")
		if value == "" {
			if err := h.clear(r.Context()); err != nil {
				writeDomainError(w, h.op, err)
				return
			}
		} else if err := h.remove(r.Context(), value); err != nil {
			writeDomainError(w, h.op, err)
			return
		}
		items := h.list(r.Context())
		writeJSON(w, http.StatusOK, listResponse{Items: items, Count: len(items)})

	default:
		http.NotFound(w, r)
	}
}
