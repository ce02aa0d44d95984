// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
)

// ClientStorages groups the client-side storage backends into a single
// value that can be passed to the table and service layers.
type ClientStorages struct {
	// Rows is the row store shared by every local table of the session.
	Rows RowStore

	db *DB
}

// NewClientStorages initialises the client storage layer. The DSN
// ":memory:" selects a [MemoryRowStore]; any other DSN is treated as an
// SQLite file path which is opened (and created if missing) and migrated.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	if cfg.DB.IsInMemory() {
		return &ClientStorages{Rows: NewMemoryRowStore(PrimaryKeys)}, nil
	}

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Rows: NewSQLRowStore(db, logger),
		db:   db,
	}, nil
}

// Close releases the database connection, if any.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}
