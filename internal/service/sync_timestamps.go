// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/table"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// SyncTimestampStore persists the time of the last successful sync per key.
type SyncTimestampStore struct {
	table *table.Table[models.SyncTimestamp]

	// serializes the delete+insert of Set
	mu sync.Mutex
}

// NewSyncTimestampStore wraps an initialized sync_timestamps table.
func NewSyncTimestampStore(t *table.Table[models.SyncTimestamp]) *SyncTimestampStore {
	return &SyncTimestampStore{table: t}
}

// Get returns the last sync time of key. ok is false when key was never
// synced.
func (s *SyncTimestampStore) Get(ctx context.Context, key string) (syncedAt time.Time, ok bool, err error) {
	ts, err := s.table.GetOneByPrimaryKey(ctx, store.Conditions{"sync_key": key})
	if errors.Is(err, store.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	return ts.SyncedAt, true, nil
}

// Set records syncedAt as the last sync time of key.
func (s *SyncTimestampStore) Set(ctx context.Context, key string, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.table.DeleteByPrimaryKey(ctx, store.Conditions{"sync_key": key}); err != nil {
		return err
	}

	return s.table.Insert(ctx, models.SyncTimestamp{Key: key, SyncedAt: syncedAt})
}

// Clear forgets key so that the next sync of it is never throttled.
func (s *SyncTimestampStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.table.DeleteByPrimaryKey(ctx, store.Conditions{"sync_key": key})
	return err
}
