// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moodlehq/moodleapp-sub049/models"
)

func TestEvents_SubscribeAndUnsubscribe(t *testing.T) {
	events := NewEvents()

	var notes, surveys int
	unsubscribe := events.Subscribe(NotesComponent, func(models.AutoSyncedEvent) { notes++ })
	events.Subscribe(SurveyComponent, func(models.AutoSyncedEvent) { surveys++ })

	events.Publish(models.AutoSyncedEvent{Component: NotesComponent, EntityID: 3})
	assert.Equal(t, 1, notes)
	assert.Equal(t, 0, surveys)

	unsubscribe()
	unsubscribe()

	events.Publish(models.AutoSyncedEvent{Component: NotesComponent, EntityID: 3})
	events.Publish(models.AutoSyncedEvent{Component: SurveyComponent, EntityID: 9})
	assert.Equal(t, 1, notes)
	assert.Equal(t, 1, surveys)
}

func TestEvents_UnsubscribeFromCallback(t *testing.T) {
	events := NewEvents()

	calls := 0
	var unsubscribe func()
	unsubscribe = events.Subscribe(NotesComponent, func(models.AutoSyncedEvent) {
		calls++
		unsubscribe()
	})

	events.Publish(models.AutoSyncedEvent{Component: NotesComponent})
	events.Publish(models.AutoSyncedEvent{Component: NotesComponent})
	assert.Equal(t, 1, calls)
}
