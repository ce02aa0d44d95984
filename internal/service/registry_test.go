// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry[EntitySyncHandler]("sync handler")
	survey := &stubHandler{}

	require.NoError(t, r.Register(SurveyComponent, survey))
	require.NoError(t, r.Register(NotesComponent, &stubHandler{}))

	err := r.Register(SurveyComponent, &stubHandler{})
	assert.ErrorIs(t, err, ErrHandlerAlreadyRegistered)

	got, err := r.Get(SurveyComponent)
	require.NoError(t, err)
	assert.Same(t, survey, got)

	_, err = r.Get("forum")
	assert.ErrorIs(t, err, ErrUnknownHandler)

	assert.Equal(t, []string{NotesComponent, SurveyComponent}, r.Names())
	assert.Len(t, r.All(), 2)
}
