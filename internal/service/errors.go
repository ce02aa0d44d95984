// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
)

var (
	// ErrOffline is returned when a remote call is needed but the device is
	// offline. It wraps [adapter.ErrTransient]: nothing is discarded and the
	// operation is retried later.
	ErrOffline = fmt.Errorf("%w: device is offline", adapter.ErrTransient)

	// ErrHandlerAlreadyRegistered is returned when a second handler is
	// registered under a name that is already taken.
	ErrHandlerAlreadyRegistered = errors.New("handler already registered")

	// ErrUnknownHandler is returned when no handler is registered under a
	// name.
	ErrUnknownHandler = errors.New("unknown handler")

	// ErrSyncPanicked is returned to every waiter of a reconciliation that
	// panicked.
	ErrSyncPanicked = errors.New("sync panicked")
)

// IsTransient reports whether a sync failure is worth retrying later:
// the remote authority could not be reached or could not answer.
func IsTransient(err error) bool {
	return adapter.IsTransient(err)
}
