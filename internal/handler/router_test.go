package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhouzirui/todo-api/backend/internal/logging"
	"github.com/zhouzirui/todo-api/backend/internal/model/todo"
	"github.com/zhouzirui/todo-api/backend/internal/observability"
	todoservice "github.com/zhouzirui/todo-api/backend/internal/service/todo"
)

func setupRouters(t *testing.T) (http.Handler, http.Handler, *todoservice.Service) {
	t.Helper()
	db, err := todo.Load("../model/todo/testdata/todos.json")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	metrics := observability.NewMetrics()
	svc := todoservice.NewService(db, metrics, nil)
	return NewRouter(svc, logging.Discard(), metrics), NewAdminRouter(svc, metrics), svc
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(method, target, nil))
	return resp
}

func TestRouterServesAPI(t *testing.T) {
	api, _, svc := setupRouters(t)

	resp := serve(api, http.MethodGet, "/api/todos/5889598555fbbad472586a56")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"owner":"Blanche"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS header")
	}

	resp = serve(api, http.MethodGet, "/api/todos")
	var items []todo.Todo
	if err := json.Unmarshal(resp.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != svc.Count() {
		t.Fatalf("expected %d todos, got %d", svc.Count(), len(items))
	}
}

func TestRouterNotFoundMessage(t *testing.T) {
	api, _, _ := setupRouters(t)

	resp := serve(api, http.MethodGet, "/api/todos/doesnotexist")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "No todo with id doesnotexist was found.") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	api, _, _ := setupRouters(t)

	resp := serve(api, http.MethodGet, "/api/users")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected json error body, got %q", resp.Header().Get("Content-Type"))
	}
}

func TestRouterRejectsWrites(t *testing.T) {
	api, _, _ := setupRouters(t)

	if resp := serve(api, http.MethodDelete, "/api/todos/5889598555fbbad472586a56"); resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func TestAdminRouter(t *testing.T) {
	api, admin, svc := setupRouters(t)

	resp := serve(admin, http.MethodGet, "/healthz")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var health struct {
		Status   string `json:"status"`
		Todos    int    `json:"todos"`
		Snapshot string `json:"snapshot"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Todos != svc.Count() || health.Snapshot != svc.SnapshotID() {
		t.Fatalf("unexpected health %+v", health)
	}

	serve(api, http.MethodGet, "/api/todos?limit=2")
	resp = serve(admin, http.MethodGet, "/metrics")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `todo_http_requests_total{method="GET",route="/api/todos`) {
		t.Fatalf("expected request metric, got:\n%s", resp.Body.String())
	}
}
