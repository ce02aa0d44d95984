// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package table

import "github.com/moodlehq/moodleapp-sub049/internal/store"

// Mapper converts between a typed value and its row representation. Field
// names in records are the column names used in conditions and sorting.
type Mapper[T any] interface {
	ToRecord(value T) store.Record
	FromRecord(record store.Record) (T, error)
}
