// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	for name, strategy := range cfg.Storage.Tables {
		switch strategy {
		case CachingEager, CachingLazy, CachingNone:
		default:
			return fmt.Errorf("%w: table %s: unknown caching strategy %q", ErrInvalidStorageConfigs, name, strategy)
		}
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 ||
		cfg.Adapter.RateLimit <= 0 || cfg.Adapter.RateBurst <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.App.Token == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Sync.NotesMinInterval < 0 || cfg.Sync.SurveyMinInterval < 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Workers.CronInterval <= 0 || cfg.Workers.ProbeInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
	}

	return nil
}
