package todo

import (
	"context"
	"errors"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zhouzirui/todo-api/backend/internal/model/todo"
	"github.com/zhouzirui/todo-api/backend/internal/observability"
)

var ErrTodoNotFound = errors.New("todo not found")

// Service answers todo lookups and list queries against a loaded database.
type Service struct {
	db      *todo.Database
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewService wraps db. metrics and tracing may be nil.
func NewService(db *todo.Database, metrics *observability.Metrics, tracing *observability.Tracing) *Service {
	return &Service{
		db:      db,
		metrics: metrics,
		tracer:  tracing.Tracer(),
	}
}

// Get returns the todo with the given id or ErrTodoNotFound.
func (s *Service) Get(ctx context.Context, id string) (todo.Todo, error) {
	_, span := s.tracer.Start(ctx, "todos.Get", trace.WithAttributes(attribute.String("todo.id", id)))
	defer span.End()

	item, ok := s.db.FindByID(id)
	if !ok {
		s.metrics.RecordQuery("get", "not_found")
		span.SetStatus(codes.Error, ErrTodoNotFound.Error())
		return todo.Todo{}, ErrTodoNotFound
	}

	s.metrics.RecordQuery("get", "ok")
	return item, nil
}

// List parses values into a filter and runs it. An unusable limit is
// returned as *todo.InvalidParameterError.
func (s *Service) List(ctx context.Context, values url.Values) ([]todo.Todo, error) {
	_, span := s.tracer.Start(ctx, "todos.List")
	defer span.End()

	filter, err := todo.ParseFilter(values)
	if err != nil {
		s.metrics.RecordQuery("list", "invalid")
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid query parameter")
		return nil, err
	}

	items := s.db.Query(filter)

	ordered := filter.OrderBy != todo.OrderNone
	span.SetAttributes(
		attribute.String("todo.filter", filter.String()),
		attribute.Bool("todo.ordered", ordered),
		attribute.Int("todo.results", len(items)),
	)
	s.metrics.RecordQuery("list", "ok")
	s.metrics.RecordResults(ordered, len(items))
	return items, nil
}

// Count returns the number of loaded todos.
func (s *Service) Count() int {
	return s.db.Count()
}

// SnapshotID identifies the loaded dataset.
func (s *Service) SnapshotID() string {
	return s.db.SnapshotID()
}
