// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/classpick/classpick/internal/app"
	"github.com/classpick/classpick/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Draw lifecycle.
	RequestDraw(ctx context.Context) (service.DrawResult, error)
	CancelSession(ctx context.Context) error
	SessionView(ctx context.Context) (any, error)

	// Roster management.
	Names(ctx context.Context) []string
	AddName(ctx context.Context, name string) error
	RemoveName(ctx context.Context, name string) error
	ClearNames(ctx context.Context) error
	Tasks(ctx context.Context) []string
	AddTask(ctx context.Context, task string) error
	RemoveTask(ctx context.Context, task string) error
	ClearTasks(ctx context.Context) error
	ResetPool(ctx context.Context, list string) error

	// Settings and records.
	Settings(ctx context.Context) service.Settings
	UpdateSettings(ctx context.Context, s service.Settings) error
	History(ctx context.Context) []model.Entry
	ClearHistory(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	drawHandler      *DrawHandler
	sessionHandler   *SessionHandler
	namesHandler     *ListHandler
	tasksHandler     *ListHandler
	historyHandler   *HistoryHandler
	settingsHandler  *SettingsHandler
	poolsHandler     *PoolsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		drawHandler:      NewDrawHandler(deps),
		sessionHandler:   NewSessionHandler(deps),
		namesHandler:     NewNamesHandler(deps),
		tasksHandler:     NewTasksHandler(deps),
		historyHandler:   NewHistoryHandler(deps),
		settingsHandler:  NewSettingsHandler(deps),
		poolsHandler:     NewPoolsHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/draw", MetricsMiddleware(s.drawHandler.HandleDraw, "draw"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleSession, "session"))
	mux.HandleFunc("/names", MetricsMiddleware(s.namesHandler.HandleList, "names"))
	mux.HandleFunc("/tasks", MetricsMiddleware(s.tasksHandler.HandleList, "tasks"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleHistory, "history"))
	mux.HandleFunc("/settings", MetricsMiddleware(s.settingsHandler.HandleSettings, "settings"))
	mux.HandleFunc("/pools/reset", MetricsMiddleware(s.poolsHandler.HandleReset, "pools_reset"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates a service error to its HTTP shape.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, Wrap(op, err))
}
