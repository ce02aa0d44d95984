// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the raw configuration container populated by each
// source (environment, flags, config file, defaults) before the sources are
// merged.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds the identity of the active session.
	App App `envPrefix:"APP_"`

	// Storage holds the local row store settings and per-table caching.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the remote authority address and request pacing.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the minimum interval between automatic syncs per entity
	// type.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds the periodic job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds log level and rotation settings.
	Log Log `envPrefix:"LOG_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	FilePath string `env:"CONFIG"`
}

// App holds session-level settings.
type App struct {
	// Token is the bearer token of the signed-in user. Its subject claim is
	// the acting user id.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// SiteID identifies the remote site the session belongs to.
	// Env: APP_SITE_ID
	SiteID string `env:"SITE_ID"`
}

// Storage groups the configuration of the local row store.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`

	// Tables maps table names to a caching strategy: eager, lazy or none.
	// Env: STORAGE_TABLES (e.g. "surveys:eager,course_notes:lazy")
	Tables map[string]string `env:"TABLES"`
}

// DB holds connection settings for the local database.
type DB struct {
	// DSN is the SQLite file path. The value ":memory:" selects the
	// in-process row store.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Adapter holds settings of the remote channel.
type Adapter struct {
	// HTTPAddress is the base URL of the remote authority
	// (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RateLimit is the sustained number of outbound requests per second.
	// Env: ADAPTER_RATE_LIMIT
	RateLimit float64 `env:"RATE_LIMIT"`

	// RateBurst is the number of requests allowed above RateLimit at once.
	// Env: ADAPTER_RATE_BURST
	RateBurst int `env:"RATE_BURST"`
}

// Sync holds per-entity-type throttling and one-shot sync settings.
type Sync struct {
	// NotesMinInterval is the minimum age of the last sync of a course's
	// notes before an automatic sync runs again.
	// Env: SYNC_NOTES_MIN_INTERVAL
	NotesMinInterval time.Duration `env:"NOTES_MIN_INTERVAL"`

	// SurveyMinInterval is the same threshold for survey answers.
	// Env: SYNC_SURVEY_MIN_INTERVAL
	SurveyMinInterval time.Duration `env:"SURVEY_MIN_INTERVAL"`

	// Now requests a single forced sync of every handler at startup.
	// Env: SYNC_NOW
	Now bool `env:"NOW"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// CronInterval is the default interval of periodic handlers.
	// Env: WORKERS_CRON_INTERVAL
	CronInterval time.Duration `env:"CRON_INTERVAL"`

	// ProbeInterval is how often connectivity to the remote authority is
	// checked.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// Log holds logging settings.
type Log struct {
	// FilePath is the rotating log file. Empty means stdout.
	// Env: LOG_FILE_PATH
	FilePath string `env:"FILE_PATH"`

	// MaxSizeMB is the size at which the log file is rotated.
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`

	// MaxBackups is the number of rotated files kept.
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`

	// Level is a zerolog level name (debug, info, warn, error).
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources. Earlier sources take precedence for non-zero fields:
//  1. Command-line flags (args)
//  2. Environment variables
//  3. Config file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(args).
		withEnv().
		withFile().
		withDefaults().
		build()
}
