// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package network

import (
	"context"
	"time"

	"github.com/moodlehq/moodleapp-sub049/internal/adapter"
	"github.com/moodlehq/moodleapp-sub049/internal/logger"
)

// DefaultProbeInterval is used when no positive interval is configured.
const DefaultProbeInterval = 30 * time.Second

// Pinger checks that the remote authority answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober feeds a [Monitor] by pinging the remote authority periodically.
type Prober struct {
	pinger   Pinger
	monitor  *Monitor
	interval time.Duration
	logger   *logger.Logger
}

func NewProber(pinger Pinger, monitor *Monitor, interval time.Duration, logger *logger.Logger) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	return &Prober{
		pinger:   pinger,
		monitor:  monitor,
		interval: interval,
		logger:   logger,
	}
}

// Probe pings once and updates the monitor. A declared rejection still
// proves the remote authority is reachable.
func (p *Prober) Probe(ctx context.Context) bool {
	err := p.pinger.Ping(ctx)
	_, rejected := adapter.IsDeclaredRejection(err)
	online := err == nil || rejected

	if online != p.monitor.IsOnline() {
		p.logger.Info().Err(err).
			Str("func", "Prober.Probe").
			Bool("online", online).
			Msg("connectivity changed")
	}
	p.monitor.SetOnline(online)

	return online
}

// Run probes immediately and then every interval until ctx is cancelled.
func (p *Prober) Run(ctx context.Context) error {
	p.Probe(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.Probe(ctx)
		}
	}
}
