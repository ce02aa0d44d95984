// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/moodlehq/moodleapp-sub049/models"
)

// Events delivers [models.AutoSyncedEvent]s to the subscribers of a
// component.
type Events struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]func(models.AutoSyncedEvent)
}

func NewEvents() *Events {
	return &Events{subs: make(map[string]map[uint64]func(models.AutoSyncedEvent))}
}

// Subscribe registers fn for the events of component. Calling the returned
// function removes the subscription; it is safe to call more than once.
func (e *Events) Subscribe(component string, fn func(models.AutoSyncedEvent)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	if e.subs[component] == nil {
		e.subs[component] = make(map[uint64]func(models.AutoSyncedEvent))
	}
	e.subs[component][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()

			delete(e.subs[component], id)
			if len(e.subs[component]) == 0 {
				delete(e.subs, component)
			}
		})
	}
}

// Publish calls every subscriber of event.Component synchronously, outside
// the lock, so a subscriber may unsubscribe from its callback.
func (e *Events) Publish(event models.AutoSyncedEvent) {
	e.mu.RLock()
	fns := make([]func(models.AutoSyncedEvent), 0, len(e.subs[event.Component]))
	for _, fn := range e.subs[event.Component] {
		fns = append(fns, fn)
	}
	e.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}
