// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncResult is the outcome of one reconciliation of an entity. Every caller
// coalesced onto the same reconciliation receives the same value.
type SyncResult struct {
	// Warnings lists human-readable messages about local changes that were
	// discarded because the remote authority declared them invalid.
	Warnings []string `json:"warnings"`

	// Updated is true when at least one pending mutation was retired, either
	// accepted or discarded.
	Updated bool `json:"updated"`
}

// SyncTimestamp is the persisted time of the last successful sync of a key.
type SyncTimestamp struct {
	Key      string    `json:"key"`
	SyncedAt time.Time `json:"synced_at"`
}

// CronExecution stores when a periodic handler last finished successfully.
type CronExecution struct {
	ID         string    `json:"id"`
	ExecutedAt time.Time `json:"executed_at"`
}

// AutoSyncedEvent is published after a reconciliation changed local state.
type AutoSyncedEvent struct {
	Component string
	EntityID  int64
	UserID    int64
	Warnings  []string
}

// SyncReport describes the sync of one entity within a batch.
type SyncReport struct {
	Component string `json:"component"`
	EntityID  int64  `json:"entity_id"`

	// Skipped is true when the entity was synced recently and nothing ran.
	Skipped bool       `json:"skipped"`
	Result  SyncResult `json:"result"`
	Err     error      `json:"-"`
}
