// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/moodlehq/moodleapp-sub049/models"
)

// SyncTarget identifies one reconciliation: an entity (a course, a survey)
// synchronized on behalf of an acting user.
type SyncTarget struct {
	EntityID int64
	UserID   int64
}

// EntitySyncHandler drains the pending mutations of one feature for one
// entity.
//
// Sync must:
//   - succeed with an empty result when nothing is pending;
//   - fail with [ErrOffline] when something is pending and the device is
//     offline, without touching local data;
//   - retire every mutation the remote authority accepted or rejected, with
//     one warning per rejected mutation;
//   - stop at the first transient failure and return it, leaving the
//     remaining mutations queued.
//
// Recording the sync time is left to the caller.
type EntitySyncHandler interface {
	// Component is the unique name of the feature, e.g. "notes".
	Component() string

	Sync(ctx context.Context, target SyncTarget) (models.SyncResult, error)
}

// Connectivity reports whether the remote authority is believed reachable.
type Connectivity interface {
	IsOnline() bool
}

// CronHandler is a task executed periodically by the [CronScheduler].
type CronHandler interface {
	// Name is the unique name of the handler.
	Name() string

	// Execute runs the task. force is true for manual executions.
	Execute(ctx context.Context, force bool) error

	// Interval between executions. Zero selects the scheduler default.
	Interval() time.Duration

	// UsesNetwork handlers are not executed while offline.
	UsesNetwork() bool

	// IsSync handlers synchronize data.
	IsSync() bool

	// CanManualSync handlers are executed by
	// [CronScheduler.ForceSyncExecution].
	CanManualSync() bool
}
