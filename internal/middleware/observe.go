// Package middleware holds the HTTP middleware mounted in front of the API routes.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/todo-api/backend/internal/observability"
)

// unmatchedRoute labels requests that did not hit a registered route, keeping
// metric cardinality bounded.
const unmatchedRoute = "unmatched"

// Observe logs each request and records its HTTP metrics. Requests are
// labelled by chi route pattern rather than raw path, so /api/todos/{id}
// stays one series. metrics may be nil.
func Observe(logger *log.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)

			metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(status), duration, ww.BytesWritten())

			fields := []any{
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", duration,
			}
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				fields = append(fields, "request_id", id)
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
