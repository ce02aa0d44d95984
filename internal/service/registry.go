// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps names to handlers. A name can be registered once; the order
// of registration does not matter.
type Registry[H any] struct {
	kind string

	mu       sync.RWMutex
	handlers map[string]H
}

// NewRegistry returns an empty registry. kind names the handler kind in
// error messages.
func NewRegistry[H any](kind string) *Registry[H] {
	return &Registry[H]{kind: kind, handlers: make(map[string]H)}
}

// Register adds handler under name.
func (r *Registry[H]) Register(name string, handler H) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("%w: %s %q", ErrHandlerAlreadyRegistered, r.kind, name)
	}
	r.handlers[name] = handler

	return nil
}

// Get returns the handler registered under name.
func (r *Registry[H]) Get(name string) (H, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[name]
	if !ok {
		var zero H
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownHandler, r.kind, name)
	}
	return handler, nil
}

// Names returns the registered names in lexical order.
func (r *Registry[H]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// All returns the handlers ordered by name.
func (r *Registry[H]) All() []H {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]H, 0, len(names))
	for _, name := range names {
		if handler, ok := r.handlers[name]; ok {
			out = append(out, handler)
		}
	}
	return out
}
