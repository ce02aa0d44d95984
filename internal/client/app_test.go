// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/devserver"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/utils"
	"github.com/moodlehq/moodleapp-sub049/models"
)

const (
	testSignKey = "secret"
	testIssuer  = "devserver"
)

func newTestApp(t *testing.T, syncNow bool) (*App, *devserver.Authority, *bytes.Buffer) {
	t.Helper()

	authority := devserver.NewAuthority()
	srv := httptest.NewServer(devserver.NewHandler(authority, testSignKey, testIssuer, logger.Nop()).Init())
	t.Cleanup(srv.Close)

	token, err := utils.GenerateJWTToken(testIssuer, 7, time.Hour, testSignKey)
	require.NoError(t, err)

	cfg := &config.ClientConfig{
		App: config.ClientApp{Token: token, SiteID: "school"},
		Adapter: config.ClientAdapter{
			HTTPAddress:    srv.URL,
			RequestTimeout: 5 * time.Second,
		},
		Storage: config.ClientStorage{DB: config.ClientDB{DSN: config.InMemoryDSN}},
		Sync: config.ClientSync{
			NotesMinInterval:  time.Hour,
			SurveyMinInterval: time.Hour,
			Now:               syncNow,
		},
		Workers: config.ClientWorkers{
			CronInterval:  time.Hour,
			ProbeInterval: 10 * time.Millisecond,
		},
	}

	app, err := NewApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	var out bytes.Buffer
	app.out = &out

	return app, authority, &out
}

func TestApp_SyncNow(t *testing.T) {
	ctx := context.Background()
	app, authority, out := newTestApp(t, true)
	notes := app.session.Services.Notes

	// the device starts offline until the first probe
	sent, err := notes.AddNote(ctx, models.NoteSubmission{UserID: 12, CourseID: 3, PublishState: models.PublishCourse, Text: "Great essay"})
	require.NoError(t, err)
	require.False(t, sent)
	_, err = notes.AddNote(ctx, models.NoteSubmission{UserID: 12, CourseID: 3, PublishState: models.PublishCourse, Text: "  "})
	require.NoError(t, err)

	require.NoError(t, app.Run(ctx))

	assert.Contains(t, out.String(), "notes #3")
	assert.Contains(t, out.String(), "The note text is empty")
	assert.Contains(t, out.String(), "1 synced, 0 skipped, 0 failed, 1 warnings")

	assert.Len(t, authority.CourseNotes(7, 3), 1)
}

func TestApp_RunUntilCancelled(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, app.session.Network.IsOnline, 2*time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
