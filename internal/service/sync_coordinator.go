// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// SyncCoordinator runs the [EntitySyncHandler] of one component with
// per-entity coalescing and throttling.
//
// Per key the state machine is Idle -> Syncing -> Idle. A reconciliation
// runs on a context detached from the caller's cancellation: a caller that
// gives up stops waiting, but the reconciliation finishes so local data is
// never left half-processed.
type SyncCoordinator struct {
	handler     EntitySyncHandler
	locks       *SyncLockRegistry
	timestamps  *SyncTimestampStore
	events      *Events
	minInterval time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewSyncCoordinator wires handler to the session's lock registry, timestamp
// store and event hub. minInterval is the throttling interval of
// [SyncCoordinator.SyncIfNeeded].
func NewSyncCoordinator(
	handler EntitySyncHandler,
	locks *SyncLockRegistry,
	timestamps *SyncTimestampStore,
	events *Events,
	minInterval time.Duration,
	logger *logger.Logger,
) *SyncCoordinator {
	return &SyncCoordinator{
		handler:     handler,
		locks:       locks,
		timestamps:  timestamps,
		events:      events,
		minInterval: minInterval,
		now:         time.Now,
		logger:      logger,
	}
}

// Component returns the name of the coordinated handler.
func (c *SyncCoordinator) Component() string {
	return c.handler.Component()
}

// Key returns the lock and timestamp key of target.
func (c *SyncCoordinator) Key(target SyncTarget) string {
	return c.locks.Key(c.handler.Component(), target.EntityID, target.UserID)
}

// IsSyncNeeded reports whether target was never synced or was last synced
// at least the minimum interval ago.
func (c *SyncCoordinator) IsSyncNeeded(ctx context.Context, target SyncTarget) (bool, error) {
	syncedAt, ok, err := c.timestamps.Get(ctx, c.Key(target))
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}

	return c.now().Sub(syncedAt) >= c.minInterval, nil
}

// SyncIfNeeded syncs target unless it was synced within the minimum
// interval. synced is false when the sync was skipped; a skipped sync has
// no side effects.
func (c *SyncCoordinator) SyncIfNeeded(ctx context.Context, target SyncTarget) (result models.SyncResult, synced bool, err error) {
	needed, err := c.IsSyncNeeded(ctx, target)
	if err != nil {
		return models.SyncResult{}, false, err
	}
	if !needed {
		return models.SyncResult{}, false, nil
	}

	result, err = c.Sync(ctx, target)
	return result, true, err
}

// Sync reconciles target. When a reconciliation of target is already in
// flight, Sync joins it instead of starting another one.
func (c *SyncCoordinator) Sync(ctx context.Context, target SyncTarget) (models.SyncResult, error) {
	key := c.Key(target)
	detached := context.WithoutCancel(ctx)

	future, started := c.locks.addOngoing(key, func() (models.SyncResult, error) {
		return c.run(detached, key, target)
	}, func(result models.SyncResult, err error) {
		if err == nil && result.Updated {
			c.publish(target, result)
		}
	})
	if !started {
		c.logger.Debug().
			Str("func", "SyncCoordinator.Sync").
			Str("sync_key", key).
			Msg("joining sync in progress")
	}

	return future.Wait(ctx)
}

// publish runs after the lock of target is released, so a subscriber may
// sync or wait for the same target.
func (c *SyncCoordinator) publish(target SyncTarget, result models.SyncResult) {
	c.events.Publish(models.AutoSyncedEvent{
		Component: c.handler.Component(),
		EntityID:  target.EntityID,
		UserID:    target.UserID,
		Warnings:  result.Warnings,
	})
}

// WaitForSync returns once no reconciliation of target is in flight.
func (c *SyncCoordinator) WaitForSync(ctx context.Context, target SyncTarget) error {
	return c.locks.WaitFor(ctx, c.Key(target))
}

func (c *SyncCoordinator) run(ctx context.Context, key string, target SyncTarget) (models.SyncResult, error) {
	log := c.logger.With().
		Str("component", c.handler.Component()).
		Str("sync_key", key).
		Logger()

	result, err := c.handler.Sync(ctx, target)
	if err != nil {
		event := log.Warn()
		if !IsTransient(err) {
			event = log.Error()
		}
		event.Err(err).Str("func", "SyncCoordinator.run").Msg("sync failed")
		return models.SyncResult{}, err
	}

	if err = c.timestamps.Set(ctx, key, c.now()); err != nil {
		log.Err(err).Str("func", "SyncCoordinator.run").Msg("failed to record sync time")
	}

	log.Debug().
		Str("func", "SyncCoordinator.run").
		Bool("updated", result.Updated).
		Int("warnings", len(result.Warnings)).
		Msg("sync finished")

	return result, nil
}
