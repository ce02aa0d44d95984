// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package network tracks whether the remote authority is reachable.
package network

import (
	"sync"
	"sync/atomic"
)

// Monitor holds the connectivity state of the device.
type Monitor struct {
	online atomic.Bool

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]func(online bool)
}

// NewMonitor returns a monitor in the given initial state.
func NewMonitor(online bool) *Monitor {
	m := &Monitor{subs: make(map[uint64]func(bool))}
	m.online.Store(online)
	return m
}

// IsOnline reports whether the remote authority was reachable at the last
// check.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// SetOnline updates the state. Subscribers are called only when the state
// changes.
func (m *Monitor) SetOnline(online bool) {
	if m.online.Swap(online) == online {
		return
	}

	m.mu.Lock()
	fns := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}
}

// OnChange registers fn for state changes. The returned function removes
// it.
func (m *Monitor) OnChange(fn func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}
