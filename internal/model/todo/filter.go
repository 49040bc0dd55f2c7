package todo

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names understood by ParseFilter.
const (
	ParamOwner    = "owner"
	ParamCategory = "category"
	ParamStatus   = "status"
	ParamLimit    = "limit"
	ParamContains = "contains"
	ParamOrderBy  = "orderBy"
)

var errNegativeLimit = errors.New("limit must not be negative")

// Filter is the validated form of a list query. Nil fields are not applied.
type Filter struct {
	Owner    *string
	Category *string
	Status   *bool
	Limit    *int
	Contains *string
	OrderBy  OrderField
}

// ParseFilter reads the supported keys from values. Only the first value of a
// repeated key is used and unknown keys are ignored.
func ParseFilter(values url.Values) (Filter, error) {
	var f Filter

	if v, ok := first(values, ParamOwner); ok {
		f.Owner = &v
	}
	if v, ok := first(values, ParamCategory); ok {
		f.Category = &v
	}
	if v, ok := first(values, ParamStatus); ok {
		status := v == StatusComplete
		f.Status = &status
	}
	if v, ok := first(values, ParamLimit); ok {
		limit, err := parseLimit(v)
		if err != nil {
			return Filter{}, &InvalidParameterError{Param: ParamLimit, Value: v, Err: err}
		}
		f.Limit = &limit
	}
	if v, ok := first(values, ParamContains); ok {
		f.Contains = &v
	}
	if v, ok := first(values, ParamOrderBy); ok {
		f.OrderBy = ParseOrderField(v)
	}

	return f, nil
}

func parseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit < 0 {
		return 0, errNegativeLimit
	}
	return limit, nil
}

func first(values url.Values, key string) (string, bool) {
	list, ok := values[key]
	if !ok || len(list) == 0 {
		return "", false
	}
	return list[0], true
}

// IsZero reports whether the filter applies no stage at all.
func (f Filter) IsZero() bool {
	return f.Owner == nil && f.Category == nil && f.Status == nil &&
		f.Limit == nil && f.Contains == nil && f.OrderBy == OrderNone
}

// String renders the applied stages in pipeline order, e.g. "owner=Blanche limit=3".
func (f Filter) String() string {
	var parts []string
	if f.Owner != nil {
		parts = append(parts, ParamOwner+"="+*f.Owner)
	}
	if f.Category != nil {
		parts = append(parts, ParamCategory+"="+*f.Category)
	}
	if f.Status != nil {
		parts = append(parts, fmt.Sprintf("%s=%t", ParamStatus, *f.Status))
	}
	if f.Limit != nil {
		parts = append(parts, fmt.Sprintf("%s=%d", ParamLimit, *f.Limit))
	}
	if f.Contains != nil {
		parts = append(parts, ParamContains+"="+*f.Contains)
	}
	if f.OrderBy != OrderNone {
		parts = append(parts, ParamOrderBy+"="+string(f.OrderBy))
	}
	return strings.Join(parts, " ")
}

// matches applies the stages that run before limit.
func (f Filter) matches(t Todo) bool {
	if f.Owner != nil && t.Owner != *f.Owner {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}
