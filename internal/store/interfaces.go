// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store provides the persistent row store the local tables are
// built on.
//
// [RowStore] is the only contract the rest of the client depends on. It is
// implemented by [SQLRowStore] (an embedded SQLite database whose schema is
// managed by goose migrations) and by [MemoryRowStore] (an in-process store
// for ephemeral sessions and tests).
package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/row_store_mock.go -package=mock

// RowStore is a keyed, asynchronous record store.
//
// Implementations return [ErrRecordNotFound] when GetRecord matches nothing
// and [ErrConstraintViolation] when InsertRecord would duplicate a primary
// key. Multi-row reads return rows in insertion order.
type RowStore interface {
	// GetRecord returns the first row of table matching conditions.
	GetRecord(ctx context.Context, table string, conditions Conditions) (Record, error)

	// GetRecords returns every row of table matching conditions.
	GetRecords(ctx context.Context, table string, conditions Conditions) ([]Record, error)

	// GetAllRecords returns every row of table.
	GetAllRecords(ctx context.Context, table string) ([]Record, error)

	// InsertRecord adds record to table.
	InsertRecord(ctx context.Context, table string, record Record) error

	// DeleteRecords removes every row of table matching conditions and
	// returns how many were removed.
	DeleteRecords(ctx context.Context, table string, conditions Conditions) (int64, error)
}
