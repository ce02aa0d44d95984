// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Record is one row of a table keyed by column name.
type Record map[string]any

// Conditions is an equality filter: a row matches when every listed column
// holds the given value. Empty conditions match every row.
type Conditions map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Matches reports whether r satisfies every condition.
func (r Record) Matches(conditions Conditions) bool {
	for field, want := range conditions {
		got, ok := r[field]
		if !ok || !ValuesEqual(got, want) {
			return false
		}
	}
	return true
}

// NormalizeValue maps the many Go representations of a column value onto a
// small canonical set so values read back from a driver compare equal to the
// values written by application code.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	case int64, float64, string, bool, time.Time, nil:
		return v
	}

	// named types such as models.PublishState
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	default:
		return v
	}
}

// ValuesEqual compares two column values after normalization.
func ValuesEqual(a, b any) bool {
	return CompareValues(a, b) == 0
}

// CompareValues orders two column values. nil sorts first; numbers compare
// numerically across int64 and float64; mismatched kinds fall back to their
// string form.
func CompareValues(a, b any) int {
	a, b = NormalizeValue(a), NormalizeValue(b)

	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y)
		case float64:
			return cmp.Compare(float64(x), y)
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmp.Compare(x, y)
		case int64:
			return cmp.Compare(x, float64(y))
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Int64 reads an integer column.
func (r Record) Int64(field string) (int64, error) {
	switch v := NormalizeValue(r[field]).(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fieldError(field, "integer", r[field])
	}
}

// Text reads a text column.
func (r Record) Text(field string) (string, error) {
	if v, ok := NormalizeValue(r[field]).(string); ok {
		return v, nil
	}
	return "", fieldError(field, "text", r[field])
}

// Bool reads a boolean column stored either as a bool or as 0/1.
func (r Record) Bool(field string) (bool, error) {
	switch v := NormalizeValue(r[field]).(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	default:
		return false, fieldError(field, "boolean", r[field])
	}
}

// UnixMilli reads a time column stored as unix milliseconds.
func (r Record) UnixMilli(field string) (time.Time, error) {
	ms, err := r.Int64(field)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func fieldError(field, want string, got any) error {
	if got == nil {
		return fmt.Errorf("%w: %s: missing %s", ErrInvalidField, field, want)
	}
	return fmt.Errorf("%w: %s: want %s, got %T", ErrInvalidField, field, want, got)
}
