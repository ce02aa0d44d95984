// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the configuration file, shared by the
// JSON and YAML decoders.
type fileConfig struct {
	App struct {
		Token  string `json:"token" yaml:"token"`
		SiteID string `json:"site_id" yaml:"site_id"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db,omitempty" yaml:"db,omitempty"`
		Tables map[string]string `json:"tables,omitempty" yaml:"tables,omitempty"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		RateLimit      float64  `json:"rate_limit" yaml:"rate_limit"`
		RateBurst      int      `json:"rate_burst" yaml:"rate_burst"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Sync struct {
		NotesMinInterval  Duration `json:"notes_min_interval" yaml:"notes_min_interval"`
		SurveyMinInterval Duration `json:"survey_min_interval" yaml:"survey_min_interval"`
	} `json:"sync,omitempty" yaml:"sync,omitempty"`

	Workers struct {
		CronInterval  Duration `json:"cron_interval" yaml:"cron_interval"`
		ProbeInterval Duration `json:"probe_interval" yaml:"probe_interval"`
	} `json:"workers,omitempty" yaml:"workers,omitempty"`

	Log struct {
		FilePath   string `json:"file_path" yaml:"file_path"`
		MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
		MaxBackups int    `json:"max_backups" yaml:"max_backups"`
		Level      string `json:"level" yaml:"level"`
	} `json:"log,omitempty" yaml:"log,omitempty"`
}

// parseFile reads a config file, decoding YAML for .yaml/.yml extensions and
// JSON otherwise.
func parseFile(path string) (*StructuredConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}
	defer file.Close()

	var fileCfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.NewDecoder(file).Decode(&fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err = json.NewDecoder(file).Decode(&fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	var tables map[string]string
	if len(fileCfg.Storage.Tables) > 0 {
		tables = make(map[string]string, len(fileCfg.Storage.Tables))
	}
	for name, strategy := range fileCfg.Storage.Tables {
		tables[name] = strings.ToLower(strategy)
	}

	return &StructuredConfig{
		App: App{
			Token:  fileCfg.App.Token,
			SiteID: fileCfg.App.SiteID,
		},
		Storage: Storage{
			DB:     DB{DSN: fileCfg.Storage.DB.DSN},
			Tables: tables,
		},
		Adapter: Adapter{
			HTTPAddress:    fileCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(fileCfg.Adapter.RequestTimeout),
			RateLimit:      fileCfg.Adapter.RateLimit,
			RateBurst:      fileCfg.Adapter.RateBurst,
		},
		Sync: Sync{
			NotesMinInterval:  time.Duration(fileCfg.Sync.NotesMinInterval),
			SurveyMinInterval: time.Duration(fileCfg.Sync.SurveyMinInterval),
		},
		Workers: Workers{
			CronInterval:  time.Duration(fileCfg.Workers.CronInterval),
			ProbeInterval: time.Duration(fileCfg.Workers.ProbeInterval),
		},
		Log: Log{
			FilePath:   fileCfg.Log.FilePath,
			MaxSizeMB:  fileCfg.Log.MaxSizeMB,
			MaxBackups: fileCfg.Log.MaxBackups,
			Level:      fileCfg.Log.Level,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}

	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)

	return nil
}
