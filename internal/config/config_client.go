// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"time"
)

// ClientApp holds session identity settings.
type ClientApp struct {
	// Token is the bearer token of the signed-in user.
	Token string
	// SiteID identifies the remote site.
	SiteID string
}

// ClientAdapter holds network settings used by the remote channel.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the remote authority.
	HTTPAddress string
	// RequestTimeout is the timeout of a single outbound request.
	RequestTimeout time.Duration
	// RateLimit is the sustained outbound request rate per second.
	RateLimit float64
	// RateBurst is the outbound request burst.
	RateBurst int
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path, or ":memory:" for the in-process store.
	DSN string
}

// InMemoryDSN selects the in-process row store.
const InMemoryDSN = ":memory:"

// IsInMemory reports whether the DSN selects the in-process row store.
func (db ClientDB) IsInMemory() bool {
	return db.DSN == InMemoryDSN
}

// ClientStorage groups client storage settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// Tables overrides the caching strategy of individual tables.
	Tables map[string]string
}

// ClientSync holds sync throttling settings.
type ClientSync struct {
	NotesMinInterval  time.Duration
	SurveyMinInterval time.Duration
	// Now requests a single forced sync at startup.
	Now bool
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// CronInterval is the default interval of periodic handlers.
	CronInterval time.Duration
	// ProbeInterval is how often connectivity is checked.
	ProbeInterval time.Duration
}

// ClientLog contains logging settings.
type ClientLog struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	Level      string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
	Workers ClientWorkers
	Log     ClientLog
}

// GetClientConfig builds and validates the client configuration from the
// process arguments and environment.
func GetClientConfig() (*ClientConfig, error) {
	return LoadClientConfig(os.Args[1:])
}

// LoadClientConfig builds and validates the client configuration from args
// and the environment.
func LoadClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)

	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Token:  cfg.App.Token,
			SiteID: cfg.App.SiteID,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RateLimit:      cfg.Adapter.RateLimit,
			RateBurst:      cfg.Adapter.RateBurst,
		},
		Storage: ClientStorage{
			DB:     ClientDB{DSN: cfg.Storage.DB.DSN},
			Tables: cfg.Storage.Tables,
		},
		Sync: ClientSync{
			NotesMinInterval:  cfg.Sync.NotesMinInterval,
			SurveyMinInterval: cfg.Sync.SurveyMinInterval,
			Now:               cfg.Sync.Now,
		},
		Workers: ClientWorkers{
			CronInterval:  cfg.Workers.CronInterval,
			ProbeInterval: cfg.Workers.ProbeInterval,
		},
		Log: ClientLog{
			FilePath:   cfg.Log.FilePath,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			Level:      cfg.Log.Level,
		},
	}
}
