// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/moodlehq/moodleapp-sub049/internal/logger"
)

// SQLRowStore is the SQLite-backed implementation of [RowStore]. Statements
// are built with squirrel from the equality conditions, and rows are scanned
// generically by column name.
type SQLRowStore struct {
	db      *DB
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// NewSQLRowStore constructs a [RowStore] over an open, migrated database.
func NewSQLRowStore(db *DB, logger *logger.Logger) *SQLRowStore {
	return &SQLRowStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  logger,
	}
}

// GetRecord implements [RowStore].
func (s *SQLRowStore) GetRecord(ctx context.Context, table string, conditions Conditions) (Record, error) {
	log := logger.FromContext(ctx)

	query := s.selectFrom(table, conditions).Limit(1)
	records, err := s.query(ctx, query)
	if err != nil {
		log.Err(err).
			Str("func", "SQLRowStore.GetRecord").
			Str("table", table).
			Msg("failed to get record")
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}

	return records[0], nil
}

// GetRecords implements [RowStore].
func (s *SQLRowStore) GetRecords(ctx context.Context, table string, conditions Conditions) ([]Record, error) {
	log := logger.FromContext(ctx)

	records, err := s.query(ctx, s.selectFrom(table, conditions))
	if err != nil {
		log.Err(err).
			Str("func", "SQLRowStore.GetRecords").
			Str("table", table).
			Msg("failed to get records")
		return nil, err
	}

	return records, nil
}

// GetAllRecords implements [RowStore].
func (s *SQLRowStore) GetAllRecords(ctx context.Context, table string) ([]Record, error) {
	return s.GetRecords(ctx, table, nil)
}

// InsertRecord implements [RowStore]. SQLite unique and primary key
// violations are reported as [ErrConstraintViolation].
func (s *SQLRowStore) InsertRecord(ctx context.Context, table string, record Record) error {
	log := logger.FromContext(ctx)

	query, args, err := s.builder.Insert(table).SetMap(map[string]any(record)).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: table %s: %w", ErrConstraintViolation, table, err)
		}

		log.Err(err).
			Str("func", "SQLRowStore.InsertRecord").
			Str("table", table).
			Msg("failed to execute insert")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteRecords implements [RowStore].
func (s *SQLRowStore) DeleteRecords(ctx context.Context, table string, conditions Conditions) (int64, error) {
	log := logger.FromContext(ctx)

	builder := s.builder.Delete(table)
	if len(conditions) > 0 {
		builder = builder.Where(sq.Eq(conditions))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "SQLRowStore.DeleteRecords").
			Str("table", table).
			Msg("failed to execute delete")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected, nil
}

func (s *SQLRowStore) selectFrom(table string, conditions Conditions) sq.SelectBuilder {
	builder := s.builder.Select("*").From(table)
	if len(conditions) > 0 {
		builder = builder.Where(sq.Eq(conditions))
	}

	// insertion order
	return builder.OrderBy("rowid")
}

func (s *SQLRowStore) query(ctx context.Context, builder sq.SelectBuilder) ([]Record, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	records := make([]Record, 0, 16)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err = rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		record := make(Record, len(columns))
		for i, column := range columns {
			record[column] = NormalizeValue(values[i])
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}
