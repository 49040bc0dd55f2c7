package todo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/todo-api/backend/internal/model/todo"
	todoservice "github.com/zhouzirui/todo-api/backend/internal/service/todo"
	"github.com/zhouzirui/todo-api/backend/pkg/utils"
)

// SnapshotHeader 标识响应所基于的数据快照。
const SnapshotHeader = "X-Todo-Snapshot"

// TodoService 抽象 todo 查询业务，便于测试与替换实现
type TodoService interface {
	Get(ctx context.Context, id string) (todo.Todo, error)
	List(ctx context.Context, values url.Values) ([]todo.Todo, error)
	SnapshotID() string
}

// Handler todo 查询的HTTP处理器
type Handler struct {
	todos  TodoService
	logger *log.Logger
}

// New 创建 todo 处理器
func New(todos TodoService, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		todos:  todos,
		logger: logger.WithPrefix("todos"),
	}
}

// RegisterRoutes 注册 todo 相关的只读路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/todos", func(todos chi.Router) {
		todos.Get("/", h.handleListTodos)
		todos.Get("/{id}", h.handleGetTodo)
	})
}

// handleGetTodo 按 id 返回单条 todo
func (h *Handler) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set(SnapshotHeader, h.todos.SnapshotID())

	item, err := h.todos.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, todoservice.ErrTodoNotFound) {
			utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("No todo with id %s was found.", id))
			return
		}
		h.logger.Error("get todo failed", "id", id, "err", err, "request_id", middleware.GetReqID(r.Context()))
		utils.RespondError(w, http.StatusInternalServerError, "failed to load todo")
		return
	}

	utils.RespondJSON(w, http.StatusOK, item)
}

// handleListTodos 按查询参数过滤、截取、排序后返回 todo 列表
func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(SnapshotHeader, h.todos.SnapshotID())

	items, err := h.todos.List(r.Context(), r.URL.Query())
	if err != nil {
		var paramErr *todo.InvalidParameterError
		if errors.As(err, &paramErr) {
			h.logger.Debug("rejected query", "param", paramErr.Param, "value", paramErr.Value)
			utils.RespondError(w, http.StatusBadRequest, paramErr.Error())
			return
		}
		h.logger.Error("list todos failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		utils.RespondError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}

	if items == nil {
		items = []todo.Todo{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}
