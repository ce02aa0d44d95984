// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package table

import (
	"slices"

	"github.com/moodlehq/moodleapp-sub049/internal/store"
)

// Direction of a sort field.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortField orders rows by one field.
type SortField struct {
	Field     string
	Direction Direction
}

// Sorting is an ordered list of sort fields; later fields break ties left
// by earlier ones. Rows equal on every field keep their relative order.
type Sorting []SortField

// Asc sorts by field in ascending order.
func Asc(field string) SortField {
	return SortField{Field: field, Direction: Ascending}
}

// Desc sorts by field in descending order.
func Desc(field string) SortField {
	return SortField{Field: field, Direction: Descending}
}

// By sorts by each field in ascending order.
func By(fields ...string) Sorting {
	out := make(Sorting, 0, len(fields))
	for _, field := range fields {
		out = append(out, Asc(field))
	}
	return out
}

// Then appends more sort fields.
func (s Sorting) Then(fields ...SortField) Sorting {
	return append(slices.Clip(s), fields...)
}

func (s Sorting) compare(a, b store.Record) int {
	for _, field := range s {
		c := store.CompareValues(a[field.Field], b[field.Field])
		if c == 0 {
			continue
		}
		if field.Direction == Descending {
			return -c
		}
		return c
	}
	return 0
}

// apply sorts records in place, keeping the order of equal rows.
func (s Sorting) apply(records []store.Record) {
	if len(s) == 0 {
		return
	}
	slices.SortStableFunc(records, s.compare)
}
