// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRowStore is an in-process [RowStore]. Tables are created on first
// use; primary key uniqueness is enforced for tables listed in the key map
// passed to [NewMemoryRowStore].
type MemoryRowStore struct {
	mu          sync.RWMutex
	primaryKeys map[string][]string
	tables      map[string][]Record
}

// NewMemoryRowStore constructs an empty store. primaryKeys maps table names
// to their primary key columns; it may be nil.
func NewMemoryRowStore(primaryKeys map[string][]string) *MemoryRowStore {
	keys := make(map[string][]string, len(primaryKeys))
	for table, pk := range primaryKeys {
		keys[table] = append([]string(nil), pk...)
	}

	return &MemoryRowStore{
		primaryKeys: keys,
		tables:      make(map[string][]Record),
	}
}

// GetRecord implements [RowStore].
func (m *MemoryRowStore) GetRecord(ctx context.Context, table string, conditions Conditions) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.tables[table] {
		if record.Matches(conditions) {
			return record.Clone(), nil
		}
	}

	return nil, ErrRecordNotFound
}

// GetRecords implements [RowStore].
func (m *MemoryRowStore) GetRecords(ctx context.Context, table string, conditions Conditions) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.tables[table]))
	for _, record := range m.tables[table] {
		if record.Matches(conditions) {
			out = append(out, record.Clone())
		}
	}

	return out, nil
}

// GetAllRecords implements [RowStore].
func (m *MemoryRowStore) GetAllRecords(ctx context.Context, table string) ([]Record, error) {
	return m.GetRecords(ctx, table, nil)
}

// InsertRecord implements [RowStore].
func (m *MemoryRowStore) InsertRecord(ctx context.Context, table string, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	normalized := make(Record, len(record))
	for k, v := range record {
		normalized[k] = NormalizeValue(v)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if pk, ok := m.primaryKeys[table]; ok {
		key := make(Conditions, len(pk))
		for _, field := range pk {
			key[field] = normalized[field]
		}
		for _, existing := range m.tables[table] {
			if existing.Matches(key) {
				return fmt.Errorf("%w: table %s: duplicate primary key", ErrConstraintViolation, table)
			}
		}
	}

	m.tables[table] = append(m.tables[table], normalized)
	return nil
}

// DeleteRecords implements [RowStore].
func (m *MemoryRowStore) DeleteRecords(ctx context.Context, table string, conditions Conditions) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	kept := rows[:0:0]
	var removed int64
	for _, record := range rows {
		if record.Matches(conditions) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	m.tables[table] = kept

	return removed, nil
}
