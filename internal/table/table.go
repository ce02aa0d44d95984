// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package table provides typed access to one row store table through a
// configurable in-memory cache.
//
// A [Table] is the only writer of its cache. As long as every mutation of
// the underlying table goes through the same Table value, the cache never
// diverges from the row store. The cache lock is never held across a row
// store call; a generation counter discards cache fills that raced with a
// mutation.
package table

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
)

// Table is a typed view of one row store table.
type Table[T any] struct {
	name       string
	primaryKey []string
	config     Config
	rows       store.RowStore
	mapper     Mapper[T]

	mu          sync.RWMutex
	generation  uint64
	initialized bool

	// eager: every row, in insertion order, indexed by primary key
	eagerRows  []store.Record
	eagerIndex map[string]store.Record

	// lazy: rows fetched by primary key or inserted
	lazyRows map[string]store.Record
}

// New constructs a table over rows. name is the row store table name and
// primaryKey its ordered, non-empty list of key fields.
func New[T any](cfg Config, rows store.RowStore, name string, primaryKey []string, mapper Mapper[T]) (*Table[T], error) {
	if len(primaryKey) == 0 {
		return nil, fmt.Errorf("table %s: %w", name, ErrEmptyPrimaryKey)
	}

	return &Table[T]{
		name:       name,
		primaryKey: append([]string(nil), primaryKey...),
		config:     cfg,
		rows:       rows,
		mapper:     mapper,
		lazyRows:   make(map[string]store.Record),
	}, nil
}

// Name returns the row store table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Config returns the table configuration.
func (t *Table[T]) Config() Config {
	return t.config
}

// Initialize prepares the cache. An eager table reads the whole row store
// table once; calling it again reloads. Lazy and none tables do not touch
// the row store.
func (t *Table[T]) Initialize(ctx context.Context) error {
	if t.config.CachingStrategy != CachingEager {
		t.mu.Lock()
		t.initialized = true
		t.mu.Unlock()
		return nil
	}

	for {
		t.mu.RLock()
		generation := t.generation
		t.mu.RUnlock()

		records, err := t.rows.GetAllRecords(ctx, t.name)
		if err != nil {
			return err
		}

		t.mu.Lock()
		if t.generation != generation {
			// a mutation landed while reading; the snapshot may be stale
			t.mu.Unlock()
			continue
		}

		t.eagerRows = make([]store.Record, 0, len(records))
		t.eagerIndex = make(map[string]store.Record, len(records))
		for _, record := range records {
			record = normalize(record)
			t.eagerRows = append(t.eagerRows, record)
			t.eagerIndex[t.keyString(record)] = record
		}
		t.initialized = true
		t.mu.Unlock()

		logger.FromContext(ctx).Debug().
			Str("func", "Table.Initialize").
			Str("table", t.name).
			Int("rows", len(records)).
			Msg("eager cache loaded")

		return nil
	}
}

// GetOneByPrimaryKey returns the row whose primary key equals key. key must
// hold a value for every primary key field; other fields are ignored.
func (t *Table[T]) GetOneByPrimaryKey(ctx context.Context, key store.Conditions) (T, error) {
	var zero T

	pk, err := t.primaryKeyConditions(key)
	if err != nil {
		return zero, err
	}
	id := t.keyString(store.Record(pk))

	switch t.config.CachingStrategy {
	case CachingEager:
		t.mu.RLock()
		defer t.mu.RUnlock()

		if !t.initialized {
			return zero, ErrNotInitialized
		}
		record, ok := t.eagerIndex[id]
		if !ok {
			return zero, store.ErrRecordNotFound
		}
		return t.decode(record)

	case CachingLazy:
		t.mu.RLock()
		record, ok := t.lazyRows[id]
		generation := t.generation
		t.mu.RUnlock()
		if ok {
			return t.decode(record)
		}

		record, err = t.rows.GetRecord(ctx, t.name, pk)
		if err != nil {
			return zero, err
		}
		record = normalize(record)

		t.mu.Lock()
		if t.generation == generation {
			t.lazyRows[id] = record
		}
		t.mu.Unlock()

		return t.decode(record)

	default:
		record, err := t.rows.GetRecord(ctx, t.name, pk)
		if err != nil {
			return zero, err
		}
		return t.decode(record)
	}
}

// GetOne returns the first row matching conditions.
func (t *Table[T]) GetOne(ctx context.Context, conditions store.Conditions) (T, error) {
	var zero T

	if t.config.CachingStrategy == CachingEager {
		t.mu.RLock()
		defer t.mu.RUnlock()

		if !t.initialized {
			return zero, ErrNotInitialized
		}
		for _, record := range t.eagerRows {
			if record.Matches(conditions) {
				return t.decode(record)
			}
		}
		return zero, store.ErrRecordNotFound
	}

	record, err := t.rows.GetRecord(ctx, t.name, conditions)
	if err != nil {
		return zero, err
	}

	return t.decode(record)
}

// GetMany returns every row matching conditions ordered by sorting.
func (t *Table[T]) GetMany(ctx context.Context, conditions store.Conditions, sorting Sorting) ([]T, error) {
	records, err := t.matching(ctx, conditions)
	if err != nil {
		return nil, err
	}

	sorting.apply(records)

	out := make([]T, 0, len(records))
	for _, record := range records {
		value, err := t.decode(record)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}

	return out, nil
}

// GetAll returns every row ordered by sorting.
func (t *Table[T]) GetAll(ctx context.Context, sorting Sorting) ([]T, error) {
	return t.GetMany(ctx, nil, sorting)
}

// Count returns how many rows match conditions.
func (t *Table[T]) Count(ctx context.Context, conditions store.Conditions) (int, error) {
	records, err := t.matching(ctx, conditions)
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// Insert writes value to the row store and then to the cache. A duplicate
// primary key fails with the row store's constraint error.
func (t *Table[T]) Insert(ctx context.Context, value T) error {
	if t.config.CachingStrategy == CachingEager {
		t.mu.RLock()
		initialized := t.initialized
		t.mu.RUnlock()
		if !initialized {
			return ErrNotInitialized
		}
	}

	record := normalize(t.mapper.ToRecord(value))
	if err := t.rows.InsertRecord(ctx, t.name, record); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	id := t.keyString(record)
	switch t.config.CachingStrategy {
	case CachingEager:
		t.eagerRows = append(t.eagerRows, record)
		t.eagerIndex[id] = record
	case CachingLazy:
		t.lazyRows[id] = record
	}

	return nil
}

// Delete removes every row matching conditions from the row store and the
// cache, and returns how many rows the row store removed.
func (t *Table[T]) Delete(ctx context.Context, conditions store.Conditions) (int64, error) {
	if t.config.CachingStrategy == CachingEager {
		t.mu.RLock()
		initialized := t.initialized
		t.mu.RUnlock()
		if !initialized {
			return 0, ErrNotInitialized
		}
	}

	removed, err := t.rows.DeleteRecords(ctx, t.name, conditions)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	switch t.config.CachingStrategy {
	case CachingEager:
		kept := t.eagerRows[:0:0]
		for _, record := range t.eagerRows {
			if record.Matches(conditions) {
				delete(t.eagerIndex, t.keyString(record))
				continue
			}
			kept = append(kept, record)
		}
		t.eagerRows = kept
	case CachingLazy:
		for id, record := range t.lazyRows {
			if record.Matches(conditions) {
				delete(t.lazyRows, id)
			}
		}
	}

	return removed, nil
}

// DeleteByPrimaryKey removes the single row whose primary key equals key.
func (t *Table[T]) DeleteByPrimaryKey(ctx context.Context, key store.Conditions) (int64, error) {
	pk, err := t.primaryKeyConditions(key)
	if err != nil {
		return 0, err
	}

	return t.Delete(ctx, pk)
}

// PrimaryKeyOf returns the primary key conditions of value.
func (t *Table[T]) PrimaryKeyOf(value T) store.Conditions {
	record := t.mapper.ToRecord(value)
	key := make(store.Conditions, len(t.primaryKey))
	for _, field := range t.primaryKey {
		key[field] = record[field]
	}
	return key
}

func (t *Table[T]) matching(ctx context.Context, conditions store.Conditions) ([]store.Record, error) {
	if t.config.CachingStrategy == CachingEager {
		t.mu.RLock()
		defer t.mu.RUnlock()

		if !t.initialized {
			return nil, ErrNotInitialized
		}
		out := make([]store.Record, 0, len(t.eagerRows))
		for _, record := range t.eagerRows {
			if record.Matches(conditions) {
				out = append(out, record)
			}
		}
		return out, nil
	}

	return t.rows.GetRecords(ctx, t.name, conditions)
}

func (t *Table[T]) primaryKeyConditions(key store.Conditions) (store.Conditions, error) {
	pk := make(store.Conditions, len(t.primaryKey))
	for _, field := range t.primaryKey {
		value, ok := key[field]
		if !ok {
			return nil, fmt.Errorf("%w: table %s: missing field %s", ErrInvalidPrimaryKey, t.name, field)
		}
		pk[field] = value
	}
	return pk, nil
}

// keyString builds the cache key of a record from its primary key values.
func (t *Table[T]) keyString(record store.Record) string {
	var b strings.Builder
	for i, field := range t.primaryKey {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		value := store.NormalizeValue(record[field])
		fmt.Fprintf(&b, "%T:%v", value, value)
	}
	return b.String()
}

func (t *Table[T]) decode(record store.Record) (T, error) {
	value, err := t.mapper.FromRecord(record.Clone())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: table %s: %w", ErrDecodingRecord, t.name, err)
	}
	return value, nil
}

func normalize(record store.Record) store.Record {
	out := make(store.Record, len(record))
	for k, v := range record {
		out[k] = store.NormalizeValue(v)
	}
	return out
}
