// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session builds the per-user state of the sync client.
//
// Everything that must be shared by the components of one signed-in user
// (the sync lock registry, the sync timestamp store, the handler registries
// and the event hub) is owned by a [Session]. Nothing is process-global: a
// second session over another row store shares no state with the first.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/network"
	"github.com/moodlehq/moodleapp-sub049/internal/service"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/utils"
	"github.com/moodlehq/moodleapp-sub049/models"
)

// ErrInvalidSession is returned when the session token does not identify a
// user.
var ErrInvalidSession = errors.New("invalid session")

// Session is the active client session of one user on one site.
type Session struct {
	UserID int64
	SiteID string

	Services *service.Services
	Network  *network.Monitor

	logger       *logger.Logger
	unsubscribes []func()
}

// New identifies the acting user from cfg.App.Token and builds the session
// services over rows.
func New(ctx context.Context, cfg *config.ClientConfig, rows store.RowStore, remote adapter.RemoteChannel, monitor *network.Monitor, log *logger.Logger) (*Session, error) {
	userID, err := utils.ParseUserIDFromJWT(cfg.App.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	sessionLog := &logger.Logger{Logger: log.With().
		Int64("user_id", userID).
		Str("site_id", cfg.App.SiteID).
		Logger()}

	services, err := service.NewServices(ctx, service.Dependencies{
		Rows:    rows,
		Remote:  remote,
		Network: monitor,
		UserID:  userID,
	}, cfg, sessionLog)
	if err != nil {
		return nil, fmt.Errorf("create session services: %w", err)
	}

	s := &Session{
		UserID:   userID,
		SiteID:   cfg.App.SiteID,
		Services: services,
		Network:  monitor,
		logger:   sessionLog,
	}
	for _, component := range services.SyncHandlers.Names() {
		s.unsubscribes = append(s.unsubscribes, services.Events.Subscribe(component, s.onAutoSynced))
	}

	sessionLog.Info().Str("func", "session.New").Msg("session started")

	return s, nil
}

// Close ends the session's event subscriptions.
func (s *Session) Close() {
	for _, unsubscribe := range s.unsubscribes {
		unsubscribe()
	}
	s.unsubscribes = nil
}

func (s *Session) onAutoSynced(event models.AutoSyncedEvent) {
	s.logger.Info().
		Str("func", "Session.onAutoSynced").
		Str("component", event.Component).
		Int64("entity_id", event.EntityID).
		Int("warnings", len(event.Warnings)).
		Msg("auto-synced")

	for _, warning := range event.Warnings {
		s.logger.Warn().
			Str("func", "Session.onAutoSynced").
			Str("component", event.Component).
			Int64("entity_id", event.EntityID).
			Msg(warning)
	}
}

// SyncNow runs every manual sync handler of the session now, ignoring the
// minimum sync intervals, and returns the sync reports they produced.
func (s *Session) SyncNow(ctx context.Context) ([]models.SyncReport, error) {
	if !s.Services.Cron.HasManualSyncHandlers() {
		return nil, nil
	}

	return s.Services.Cron.ForceSyncExecution(ctx)
}

// SyncOnReconnect runs a throttled sync of every component each time the
// device comes back online, until ctx is cancelled. It implements the
// worker contract.
func (s *Session) SyncOnReconnect(ctx context.Context) error {
	if !s.Services.Cron.HasSyncHandlers() {
		return nil
	}

	reconnected := make(chan struct{}, 1)
	unsubscribe := s.Network.OnChange(func(online bool) {
		if !online {
			return
		}
		select {
		case reconnected <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reconnected:
			reports, err := s.Services.SyncAll(ctx, false)
			if err != nil {
				s.logger.Warn().Err(err).Str("func", "Session.SyncOnReconnect").Msg("sync after reconnect failed")
			}
			s.logger.Info().
				Str("func", "Session.SyncOnReconnect").
				Int("entities", len(reports)).
				Msg("synced after reconnect")
		}
	}
}
