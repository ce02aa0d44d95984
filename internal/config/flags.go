// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the client command line.
//
// Flags:
//
//	-a remote authority address in format [host]:[port]
//	-d database DSN (":memory:" for the in-process store)
//	-c/-config JSON or YAML config file path
//	-token bearer token of the session
//	-site-id remote site id
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-rate-limit outbound requests per second
//	-rate-burst outbound request burst
//	-tables caching per table (e.g., "surveys:eager,course_notes:lazy")
//	-notes-min-interval minimum interval between automatic notes syncs
//	-survey-min-interval minimum interval between automatic survey syncs
//	-cron-interval default periodic job interval
//	-probe-interval connectivity probe interval
//	-log-file rotating log file path
//	-log-level log level
//	-sync-now run one forced sync and exit
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	var remoteAddress NetAddress
	var databaseDSN string
	var configPath string
	var token, siteID string
	var requestTimeout time.Duration
	var rateLimit float64
	var rateBurst int
	var tables string
	var notesMinInterval, surveyMinInterval time.Duration
	var cronInterval, probeInterval time.Duration
	var logFile, logLevel string
	var syncNow bool

	fs.Var(&remoteAddress, "a", "Remote authority address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")
	fs.StringVar(&token, "token", "", "Session bearer token")
	fs.StringVar(&siteID, "site-id", "", "Remote site id")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.Float64Var(&rateLimit, "rate-limit", 0, "Outbound requests per second")
	fs.IntVar(&rateBurst, "rate-burst", 0, "Outbound request burst")
	fs.StringVar(&tables, "tables", "", "Caching strategy per table (name:strategy,...)")
	fs.DurationVar(&notesMinInterval, "notes-min-interval", 0, "Minimum interval between notes syncs")
	fs.DurationVar(&surveyMinInterval, "survey-min-interval", 0, "Minimum interval between survey syncs")
	fs.DurationVar(&cronInterval, "cron-interval", 0, "Default periodic job interval")
	fs.DurationVar(&probeInterval, "probe-interval", 0, "Connectivity probe interval")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.BoolVar(&syncNow, "sync-now", false, "Run one forced sync and exit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	tableStrategies, err := parseTables(tables)
	if err != nil {
		return nil, err
	}

	var httpAddress string
	if addr := remoteAddress.String(); addr != "" {
		httpAddress = "http://" + addr
	}

	return &StructuredConfig{
		App: App{
			Token:  token,
			SiteID: siteID,
		},
		Storage: Storage{
			DB:     DB{DSN: databaseDSN},
			Tables: tableStrategies,
		},
		Adapter: Adapter{
			HTTPAddress:    httpAddress,
			RequestTimeout: requestTimeout,
			RateLimit:      rateLimit,
			RateBurst:      rateBurst,
		},
		Sync: Sync{
			NotesMinInterval:  notesMinInterval,
			SurveyMinInterval: surveyMinInterval,
			Now:               syncNow,
		},
		Workers: Workers{
			CronInterval:  cronInterval,
			ProbeInterval: probeInterval,
		},
		Log: Log{
			FilePath: logFile,
			Level:    logLevel,
		},
		FilePath: configPath,
	}, nil
}

// parseTables parses "name:strategy" pairs separated by commas.
func parseTables(s string) (map[string]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		name, strategy, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || name == "" || strategy == "" {
			return nil, fmt.Errorf("%w: malformed table setting %q", ErrInvalidStorageConfigs, pair)
		}
		out[name] = strings.ToLower(strategy)
	}

	return out, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
