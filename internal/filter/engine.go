package filter

import (
	"strings"
	"time"

	"booking-workers/internal/models"
)

// Matcher turns a filter value into a record predicate. It is called once per
// Apply so value parsing is not repeated per record.
type Matcher[T any] func(value string) func(T) bool

// Mapping binds filter keys to matchers for one record type. Keys missing from
// the mapping are ignored by the engine.
type Mapping[T any] map[Key]Matcher[T]

// Engine applies a Selection to records of type T.
type Engine[T any] struct {
	mapping Mapping[T]
}

func New[T any](mapping Mapping[T]) *Engine[T] {
	return &Engine[T]{mapping: mapping}
}

// Handles reports whether key has a mapping on this engine.
func (e *Engine[T]) Handles(key Key) bool {
	_, ok := e.mapping[key]
	return ok
}

// Apply keeps the records that satisfy every applicable filter, in input order.
func (e *Engine[T]) Apply(records []T, sel *Selection) []T {
	var preds []func(T) bool
	if sel != nil {
		applicable := sel.Applicable()
		for _, key := range Keys {
			value, ok := applicable[key]
			if !ok {
				continue
			}
			if m, mapped := e.mapping[key]; mapped {
				preds = append(preds, m(value))
			}
		}
	}

	out := make([]T, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Substring matches when any field contains the value, ignoring case.
func Substring[T any](fields ...func(T) string) Matcher[T] {
	return func(value string) func(T) bool {
		needle := strings.ToLower(value)
		return func(r T) bool {
			for _, f := range fields {
				if strings.Contains(strings.ToLower(f(r)), needle) {
					return true
				}
			}
			return false
		}
	}
}

// Exact matches a categorical field by equality.
func Exact[T any](field func(T) string) Matcher[T] {
	return func(value string) func(T) bool {
		return func(r T) bool { return field(r) == value }
	}
}

// SameDay matches when the record's date, read in loc, falls on the calendar
// day written in the value. A value that is not a date matches nothing.
func SameDay[T any](field func(T) time.Time, loc *time.Location) Matcher[T] {
	return func(value string) func(T) bool {
		want, err := models.ParseDay(value)
		if err != nil {
			return func(T) bool { return false }
		}
		return func(r T) bool {
			t := field(r)
			if t.IsZero() {
				return false
			}
			return models.DayOf(t, loc) == want
		}
	}
}
