// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/moodlehq/moodleapp-sub049/models"
)

// SyncFuture is the eventual outcome of one reconciliation. It settles
// exactly once and every waiter observes the same result.
type SyncFuture struct {
	done   chan struct{}
	result models.SyncResult
	err    error
}

func newSyncFuture() *SyncFuture {
	return &SyncFuture{done: make(chan struct{})}
}

// Done is closed when the future settles.
func (f *SyncFuture) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done. A cancelled ctx only
// stops the wait; the reconciliation keeps running.
func (f *SyncFuture) Wait(ctx context.Context) (models.SyncResult, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return models.SyncResult{}, ctx.Err()
	}
}

func (f *SyncFuture) settle(result models.SyncResult, err error) {
	f.result, f.err = result, err
	close(f.done)
}

// SyncLockRegistry tracks the reconciliations in flight, at most one per
// key. It belongs to one session.
type SyncLockRegistry struct {
	mu      sync.Mutex
	ongoing map[string]*SyncFuture
}

func NewSyncLockRegistry() *SyncLockRegistry {
	return &SyncLockRegistry{ongoing: make(map[string]*SyncFuture)}
}

// Key builds the lock key of a reconciliation. The same arguments always
// give the same key and distinct arguments never collide.
func (r *SyncLockRegistry) Key(component string, entityID int64, scope ...any) string {
	var b strings.Builder
	b.WriteString(strconv.Quote(component))
	b.WriteByte('#')
	b.WriteString(strconv.FormatInt(entityID, 10))
	for _, part := range scope {
		b.WriteByte('#')
		b.WriteString(strconv.Quote(fmt.Sprint(part)))
	}
	return b.String()
}

// IsSyncing reports whether a reconciliation for key is in flight.
func (r *SyncLockRegistry) IsSyncing(key string) bool {
	_, ok := r.GetOngoing(key)
	return ok
}

// GetOngoing returns the in-flight reconciliation for key.
func (r *SyncLockRegistry) GetOngoing(key string) (*SyncFuture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	future, ok := r.ongoing[key]
	return future, ok
}

// AddOngoing starts task in a new goroutine and registers it under key,
// unless a reconciliation for key is already in flight, in which case that
// one is returned and started is false. The entry is removed as soon as
// task returns, before any waiter is released.
func (r *SyncLockRegistry) AddOngoing(key string, task func() (models.SyncResult, error)) (future *SyncFuture, started bool) {
	return r.addOngoing(key, task, nil)
}

// addOngoing is AddOngoing with a hook that runs once the entry is removed
// and before the future settles. The hook may start or wait for another
// reconciliation of key.
func (r *SyncLockRegistry) addOngoing(
	key string,
	task func() (models.SyncResult, error),
	released func(models.SyncResult, error),
) (future *SyncFuture, started bool) {
	r.mu.Lock()
	if existing, ok := r.ongoing[key]; ok {
		r.mu.Unlock()
		return existing, false
	}
	future = newSyncFuture()
	r.ongoing[key] = future
	r.mu.Unlock()

	go func() {
		result, err := runTask(task)

		r.mu.Lock()
		if r.ongoing[key] == future {
			delete(r.ongoing, key)
		}
		r.mu.Unlock()

		if released != nil {
			result, err = runReleased(released, result, err)
		}
		future.settle(result, err)
	}()

	return future, true
}

// WaitFor returns once nothing is in flight for key. It does not start a
// reconciliation.
func (r *SyncLockRegistry) WaitFor(ctx context.Context, key string) error {
	future, ok := r.GetOngoing(key)
	if !ok {
		return nil
	}

	select {
	case <-future.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func runTask(task func() (models.SyncResult, error)) (result models.SyncResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, err = models.SyncResult{}, fmt.Errorf("%w: %v", ErrSyncPanicked, p)
		}
	}()

	return task()
}

func runReleased(released func(models.SyncResult, error), result models.SyncResult, err error) (outResult models.SyncResult, outErr error) {
	defer func() {
		if p := recover(); p != nil {
			outResult, outErr = models.SyncResult{}, fmt.Errorf("%w: %v", ErrSyncPanicked, p)
		}
	}()

	released(result, err)
	return result, err
}
