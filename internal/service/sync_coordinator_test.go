// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/table"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// stubHandler counts its invocations and blocks on release when set.
type stubHandler struct {
	calls   atomic.Int32
	release chan struct{}
	result  models.SyncResult
	err     error
}

func (h *stubHandler) Component() string {
	return "stub"
}

func (h *stubHandler) Sync(ctx context.Context, _ SyncTarget) (models.SyncResult, error) {
	h.calls.Add(1)
	if h.release != nil {
		<-h.release
	}
	return h.result, h.err
}

func newTestTimestamps(t *testing.T) *SyncTimestampStore {
	t.Helper()

	rows := store.NewMemoryRowStore(store.PrimaryKeys)
	tbl, err := table.New[models.SyncTimestamp](table.Config{CachingStrategy: table.CachingEager}, rows,
		store.TableSyncTimestamps, store.PrimaryKeys[store.TableSyncTimestamps], syncTimestampMapper{})
	require.NoError(t, err)
	require.NoError(t, tbl.Initialize(context.Background()))

	return NewSyncTimestampStore(tbl)
}

func newTestCoordinator(t *testing.T, handler EntitySyncHandler) (*SyncCoordinator, *Events) {
	t.Helper()

	events := NewEvents()
	c := NewSyncCoordinator(handler, NewSyncLockRegistry(), newTestTimestamps(t), events, time.Hour, logger.Nop())
	return c, events
}

var testTarget = SyncTarget{EntityID: 3, UserID: testUserID}

func TestSyncCoordinator_CoalescesConcurrentSyncs(t *testing.T) {
	handler := &stubHandler{
		release: make(chan struct{}),
		result:  models.SyncResult{Warnings: []string{"discarded"}, Updated: true},
	}
	c, _ := newTestCoordinator(t, handler)
	ctx := context.Background()

	type outcome struct {
		result models.SyncResult
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		result, err := c.Sync(ctx, testTarget)
		first <- outcome{result, err}
	}()

	require.Eventually(t, func() bool { return handler.calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.True(t, c.locks.IsSyncing(c.Key(testTarget)))

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(handler.release)
	}()

	second, err := c.Sync(ctx, testTarget)
	require.NoError(t, err)

	got := <-first
	require.NoError(t, got.err)
	assert.Equal(t, got.result, second)
	assert.Equal(t, int32(1), handler.calls.Load())
	assert.False(t, c.locks.IsSyncing(c.Key(testTarget)))
}

func TestSyncCoordinator_SyncIfNeeded_Throttles(t *testing.T) {
	handler := &stubHandler{result: models.SyncResult{Warnings: []string{}}}
	c, _ := newTestCoordinator(t, handler)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, synced, err := c.SyncIfNeeded(ctx, testTarget)
	require.NoError(t, err)
	assert.True(t, synced)

	now = now.Add(59 * time.Minute)
	_, synced, err = c.SyncIfNeeded(ctx, testTarget)
	require.NoError(t, err)
	assert.False(t, synced)
	assert.Equal(t, int32(1), handler.calls.Load())

	now = now.Add(time.Minute)
	_, synced, err = c.SyncIfNeeded(ctx, testTarget)
	require.NoError(t, err)
	assert.True(t, synced)
	assert.Equal(t, int32(2), handler.calls.Load())

	// a forced sync ignores the interval
	_, err = c.Sync(ctx, testTarget)
	require.NoError(t, err)
	assert.Equal(t, int32(3), handler.calls.Load())
}

func TestSyncCoordinator_FailureLeavesTimestamp(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "transient", err: fmt.Errorf("%w: 503", adapter.ErrTransient)},
		{name: "offline", err: ErrOffline},
		{name: "local storage", err: store.ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &stubHandler{err: tt.err}
			c, events := newTestCoordinator(t, handler)
			ctx := context.Background()

			published := 0
			events.Subscribe("stub", func(models.AutoSyncedEvent) { published++ })

			_, err := c.Sync(ctx, testTarget)
			assert.ErrorIs(t, err, tt.err)

			needed, err := c.IsSyncNeeded(ctx, testTarget)
			require.NoError(t, err)
			assert.True(t, needed)
			assert.Zero(t, published)
		})
	}
}

func TestSyncCoordinator_PublishesOnlyWhenUpdated(t *testing.T) {
	handler := &stubHandler{result: models.SyncResult{Warnings: []string{}}}
	c, events := newTestCoordinator(t, handler)
	ctx := context.Background()

	var got []models.AutoSyncedEvent
	events.Subscribe("stub", func(e models.AutoSyncedEvent) { got = append(got, e) })

	_, err := c.Sync(ctx, testTarget)
	require.NoError(t, err)
	assert.Empty(t, got)

	handler.result = models.SyncResult{Warnings: []string{"w"}, Updated: true}
	_, err = c.Sync(ctx, testTarget)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.AutoSyncedEvent{Component: "stub", EntityID: 3, UserID: testUserID, Warnings: []string{"w"}}, got[0])
}

func TestSyncCoordinator_SubscriberMaySyncSameTarget(t *testing.T) {
	handler := &stubHandler{result: models.SyncResult{Updated: true}}
	c, events := newTestCoordinator(t, handler)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var nested atomic.Bool
	var waitErr, syncErr error
	events.Subscribe("stub", func(models.AutoSyncedEvent) {
		if !nested.CompareAndSwap(false, true) {
			return
		}
		waitErr = c.WaitForSync(ctx, testTarget)
		_, syncErr = c.Sync(ctx, testTarget)
	})

	_, err := c.Sync(ctx, testTarget)
	require.NoError(t, err)
	assert.NoError(t, waitErr)
	assert.NoError(t, syncErr)
	assert.Equal(t, int32(2), handler.calls.Load())
}

func TestSyncCoordinator_CancelledCallerDoesNotAbortSync(t *testing.T) {
	handler := &stubHandler{release: make(chan struct{}), result: models.SyncResult{Updated: true}}
	c, _ := newTestCoordinator(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Sync(ctx, testTarget)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return handler.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(handler.release)
	require.NoError(t, c.WaitForSync(context.Background(), testTarget))

	needed, err := c.IsSyncNeeded(context.Background(), testTarget)
	require.NoError(t, err)
	assert.False(t, needed)
}

func TestSyncCoordinator_WaitForSync_Idle(t *testing.T) {
	c, _ := newTestCoordinator(t, &stubHandler{})

	assert.NoError(t, c.WaitForSync(context.Background(), testTarget))
}

func TestSyncCoordinator_Panic(t *testing.T) {
	c, _ := newTestCoordinator(t, panicHandler{})

	_, err := c.Sync(context.Background(), testTarget)
	assert.True(t, errors.Is(err, ErrSyncPanicked))
	assert.False(t, c.locks.IsSyncing(c.Key(testTarget)))
}

type panicHandler struct{}

func (panicHandler) Component() string { return "stub" }

func (panicHandler) Sync(context.Context, SyncTarget) (models.SyncResult, error) {
	panic("boom")
}
