package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/todo-api/backend/internal/handler/todo"
	middlewarePkg "github.com/zhouzirui/todo-api/backend/internal/middleware"
	"github.com/zhouzirui/todo-api/backend/internal/observability"
	"github.com/zhouzirui/todo-api/backend/pkg/utils"
)

// NewRouter wires the public read-only API routes.
func NewRouter(todos todo.TodoService, logger *log.Logger, metrics *observability.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Observe(logger.WithPrefix("http"), metrics))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	todoHandler := todo.New(todos, logger)

	r.Route("/api", func(api chi.Router) {
		todoHandler.RegisterRoutes(api)
	})

	return r
}

// HealthReporter is what the admin router needs to describe the dataset.
type HealthReporter interface {
	SnapshotID() string
	Count() int
}

// NewAdminRouter serves /metrics and /healthz on the admin listener.
func NewAdminRouter(health HealthReporter, metrics *observability.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"todos":    health.Count(),
			"snapshot": health.SnapshotID(),
		})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r
}
