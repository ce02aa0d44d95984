// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
	"github.com/moodlehq/moodleapp-sub049/internal/config"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
	"github.com/moodlehq/moodleapp-sub049/internal/network"
	"github.com/moodlehq/moodleapp-sub049/internal/report"
	"github.com/moodlehq/moodleapp-sub049/internal/service"
	"github.com/moodlehq/moodleapp-sub049/internal/session"
	"github.com/moodlehq/moodleapp-sub049/internal/store"
	"github.com/moodlehq/moodleapp-sub049/internal/workers"
)

type App struct {
	cfg      *config.ClientConfig
	storages *store.ClientStorages
	session  *session.Session
	prober   *network.Prober
	out      io.Writer
	logger   *logger.Logger
}

var _ Client = (*App)(nil)

// NewApp opens local storage and the remote channel and starts the session
// of the user identified by cfg.App.Token.
func NewApp(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteChannel(cfg.Adapter, cfg.App, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create remote channel: %w", err)
	}

	monitor := network.NewMonitor(false)
	prober := network.NewProber(remote, monitor, cfg.Workers.ProbeInterval, log)

	s, err := session.New(ctx, cfg, storages.Rows, remote, monitor, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("start session: %w", err)
	}

	return &App{
		cfg:      cfg,
		storages: storages,
		session:  s,
		prober:   prober,
		out:      os.Stdout,
		logger:   log,
	}, nil
}

// Run runs the background workers until ctx is cancelled. With
// cfg.Sync.Now it instead syncs every component once, prints the report
// and returns.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.session.Close()
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Str("func", "App.Run").Msg("close local storage")
		}
	}()

	if a.cfg.Sync.Now {
		return a.syncNow(ctx)
	}

	w := workers.NewWorkers(
		a.prober,
		a.session.Services.Cron,
		workers.Func(a.session.SyncOnReconnect),
	)

	a.logger.Info().Str("func", "App.Run").Msg("client started")
	err := w.Run(ctx)
	a.logger.Info().Str("func", "App.Run").Msg("client stopped")

	return err
}

func (a *App) syncNow(ctx context.Context) error {
	if !a.prober.Probe(ctx) {
		a.logger.Warn().Str("func", "App.syncNow").Msg("remote authority unreachable, nothing will be sent")
	}

	reports, err := a.session.SyncNow(ctx)
	if errors.Is(err, service.ErrOffline) && len(reports) == 0 {
		return err
	}
	if _, printErr := fmt.Fprintln(a.out, report.Render(reports)); printErr != nil {
		err = errors.Join(err, printErr)
	}

	return err
}
