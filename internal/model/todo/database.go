// Package todo holds the todo record model and the in-memory query engine
// that filters, limits and orders the collection loaded at startup.
package todo

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Database is an immutable, in-memory todo collection. It is safe for
// concurrent use because nothing mutates it after construction.
type Database struct {
	snapshotID string
	items      []Todo
	ordered    map[OrderField][]Todo
}

// Load reads a JSON array of todos from path. Any failure is reported as a
// *DataLoadError.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	items, err := decode(data)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	return New(items), nil
}

func decode(data []byte) ([]Todo, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, ok := doc.([]any); !ok {
		return nil, errors.New("expected a JSON array of todos")
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var items []Todo
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	seen := make(map[string]int, len(items))
	for i, item := range items {
		if prev, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("duplicate _id %q at [%d] and [%d]", item.ID, prev, i)
		}
		seen[item.ID] = i
	}
	return items, nil
}

// New builds a Database from already decoded todos. The slice is copied.
func New(items []Todo) *Database {
	db := &Database{
		snapshotID: uuid.NewString(),
		items:      append([]Todo(nil), items...),
		ordered:    make(map[OrderField][]Todo, len(orderFields)),
	}
	for _, field := range orderFields {
		sorted := append([]Todo(nil), db.items...)
		slices.SortStableFunc(sorted, compareBy(field))
		db.ordered[field] = sorted
	}
	return db
}

func compareBy(field OrderField) func(a, b Todo) int {
	switch field {
	case OrderStatus:
		return func(a, b Todo) int { return compareBool(a.Status, b.Status) }
	case OrderOwner:
		return func(a, b Todo) int { return strings.Compare(a.Owner, b.Owner) }
	case OrderCategory:
		return func(a, b Todo) int { return strings.Compare(a.Category, b.Category) }
	case OrderBody:
		return func(a, b Todo) int { return strings.Compare(a.Body, b.Body) }
	default:
		return func(Todo, Todo) int { return 0 }
	}
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	return cmp.Compare(boolRank(a), boolRank(b))
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

// SnapshotID identifies this loaded copy of the data.
func (db *Database) SnapshotID() string {
	return db.snapshotID
}

// Count returns the number of todos held.
func (db *Database) Count() int {
	return len(db.items)
}

// FindByID returns the first todo in storage order whose ID equals id.
func (db *Database) FindByID(id string) (Todo, bool) {
	for _, item := range db.items {
		if item.ID == id {
			return item, true
		}
	}
	return Todo{}, false
}

// All returns every todo in storage order.
func (db *Database) All() []Todo {
	return append([]Todo{}, db.items...)
}

// Query runs the filter pipeline: owner, category and status, then limit,
// then contains. A known OrderBy replaces the whole result with the full
// collection sorted by that field, whatever the other stages selected.
// The returned slice is never nil.
func (db *Database) Query(f Filter) []Todo {
	if sorted, ok := db.ordered[f.OrderBy]; ok {
		return append([]Todo{}, sorted...)
	}

	result := make([]Todo, 0)
	taken := 0
	for _, item := range db.items {
		if f.Limit != nil && taken >= *f.Limit {
			break
		}
		if !f.matches(item) {
			continue
		}
		taken++
		if f.Contains != nil && !strings.Contains(item.Body, *f.Contains) {
			continue
		}
		result = append(result, item)
	}
	return result
}
