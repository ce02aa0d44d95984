// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/mock"
	"github.com/moodlehq/moodleapp-sub049/internal/network"
	"github.com/moodlehq/moodleapp-sub049/internal/service"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/utils"
	"github.com/moodlehq/moodleapp-sub049/models"
)

func testConfig(t *testing.T, userID int64) *config.ClientConfig {
	t.Helper()

	token, err := utils.GenerateJWTToken("devserver", userID, time.Hour, "secret")
	require.NoError(t, err)

	return &config.ClientConfig{
		App: config.ClientApp{Token: token, SiteID: "school"},
		Sync: config.ClientSync{
			NotesMinInterval:  time.Hour,
			SurveyMinInterval: time.Hour,
		},
	}
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, err := New(context.Background(), testConfig(t, 42), store.NewMemoryRowStore(store.PrimaryKeys),
		mock.NewMockRemoteChannel(ctrl), network.NewMonitor(true), logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, "school", s.SiteID)
	assert.Equal(t, []string{service.NotesComponent, service.SurveyComponent}, s.Services.SyncHandlers.Names())
}

func TestNew_InvalidToken(t *testing.T) {
	cfg := testConfig(t, 42)
	cfg.App.Token = "not-a-token"

	_, err := New(context.Background(), cfg, store.NewMemoryRowStore(store.PrimaryKeys), nil, network.NewMonitor(true), logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestSessions_ShareNoState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	remote := mock.NewMockRemoteChannel(ctrl)
	monitor := network.NewMonitor(false)

	first, err := New(ctx, testConfig(t, 1), store.NewMemoryRowStore(store.PrimaryKeys), remote, monitor, logger.Nop())
	require.NoError(t, err)
	second, err := New(ctx, testConfig(t, 2), store.NewMemoryRowStore(store.PrimaryKeys), remote, monitor, logger.Nop())
	require.NoError(t, err)

	assert.NotSame(t, first.Services.Locks, second.Services.Locks)
	assert.NotSame(t, first.Services.Timestamps, second.Services.Timestamps)

	_, err = first.Services.Notes.AddNote(ctx, models.NoteSubmission{UserID: 5, CourseID: 3, PublishState: models.PublishCourse, Text: "hello"})
	require.NoError(t, err)

	pending, err := first.Services.Notes.HasDataToSync(ctx, 3)
	require.NoError(t, err)
	assert.True(t, pending)

	pending, err = second.Services.Notes.HasDataToSync(ctx, 3)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestSession_SyncOnReconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	remote := mock.NewMockRemoteChannel(ctrl)
	monitor := network.NewMonitor(false)

	s, err := New(ctx, testConfig(t, 1), store.NewMemoryRowStore(store.PrimaryKeys), remote, monitor, logger.Nop())
	require.NoError(t, err)

	_, err = s.Services.Notes.AddNote(ctx, models.NoteSubmission{UserID: 5, CourseID: 3, PublishState: models.PublishCourse, Text: "hello"})
	require.NoError(t, err)

	synced := make(chan struct{})
	remote.EXPECT().CreateNotes(gomock.Any(), gomock.Len(1)).Return([]models.NoteOutcome{{NoteID: 10}}, nil)
	remote.EXPECT().ListCourseNotes(gomock.Any(), int64(3)).DoAndReturn(func(context.Context, int64) ([]models.Note, error) {
		close(synced)
		return nil, nil
	})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- s.SyncOnReconnect(runCtx) }()

	// the subscription is registered asynchronously; keep flipping until it
	// is picked up
	require.Eventually(t, func() bool {
		monitor.SetOnline(false)
		monitor.SetOnline(true)
		select {
		case <-synced:
			return true
		case <-time.After(5 * time.Millisecond):
			return false
		}
	}, 2*time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestSession_SyncNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	remote := mock.NewMockRemoteChannel(ctrl)
	monitor := network.NewMonitor(false)

	s, err := New(ctx, testConfig(t, 1), store.NewMemoryRowStore(store.PrimaryKeys), remote, monitor, logger.Nop())
	require.NoError(t, err)

	_, err = s.Services.Survey.SubmitAnswers(ctx, models.Survey{ID: 9, Name: "ATTLS"}, []models.SurveyAnswer{{Key: "q1", Value: "1"}})
	require.NoError(t, err)

	reports, err := s.SyncNow(ctx)
	assert.ErrorIs(t, err, service.ErrOffline)
	assert.Empty(t, reports)

	monitor.SetOnline(true)
	remote.EXPECT().SubmitSurveyAnswers(gomock.Any(), int64(9), gomock.Any()).Return(nil)
	remote.EXPECT().GetSurvey(gomock.Any(), int64(9)).Return(models.Survey{ID: 9, Name: "ATTLS", SurveyDone: true}, nil)

	reports, err = s.SyncNow(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(9), reports[0].EntityID)
	assert.True(t, reports[0].Result.Updated)

	_, ok, err := s.Services.Cron.LastExecution(ctx, service.SurveyCronHandler)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSession_LogsAutoSynced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}

	s, err := New(ctx, testConfig(t, 1), store.NewMemoryRowStore(store.PrimaryKeys), mock.NewMockRemoteChannel(ctrl), network.NewMonitor(true), log)
	require.NoError(t, err)

	s.Services.Events.Publish(models.AutoSyncedEvent{Component: service.NotesComponent, EntityID: 3, Warnings: []string{"note discarded"}})
	assert.Contains(t, buf.String(), "auto-synced")
	assert.Contains(t, buf.String(), "note discarded")

	s.Close()
	buf.Reset()
	s.Services.Events.Publish(models.AutoSyncedEvent{Component: service.NotesComponent, EntityID: 3})
	assert.Empty(t, buf.String())
}
