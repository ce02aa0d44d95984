// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Caching strategy names accepted in Storage.Tables.
const (
	CachingEager = "eager"
	CachingLazy  = "lazy"
	CachingNone  = "none"
)

const (
	defaultDSN               = "moodle_client.db"
	defaultRequestTimeout    = 30 * time.Second
	defaultRateLimit         = 10
	defaultRateBurst         = 5
	defaultSyncMinInterval   = 5 * time.Minute
	defaultCronInterval      = time.Hour
	defaultProbeInterval     = 30 * time.Second
	defaultLogLevel          = "info"
	defaultLogMaxSizeMB      = 10
	defaultLogMaxBackups     = 3
	defaultRemoteHTTPAddress = "http://localhost:8080"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DB: DB{DSN: defaultDSN},
		},
		Adapter: Adapter{
			HTTPAddress:    defaultRemoteHTTPAddress,
			RequestTimeout: defaultRequestTimeout,
			RateLimit:      defaultRateLimit,
			RateBurst:      defaultRateBurst,
		},
		Sync: Sync{
			NotesMinInterval:  defaultSyncMinInterval,
			SurveyMinInterval: defaultSyncMinInterval,
		},
		Workers: Workers{
			CronInterval:  defaultCronInterval,
			ProbeInterval: defaultProbeInterval,
		},
		Log: Log{
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			Level:      defaultLogLevel,
		},
	}
}
