// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"dario.cat/mergo"
)

// ErrInvalidDevServerConfigs indicates an unusable development server
// configuration.
var ErrInvalidDevServerConfigs = errors.New("invalid dev server configuration")

const (
	defaultDevServerAddress  = "localhost:8080"
	defaultDevServerIssuer   = "devserver"
	defaultDevServerTokenTTL = 24 * time.Hour
)

// DevServer configures the in-memory remote authority used for local
// development.
type DevServer struct {
	// Address is the listen address.
	// Env: DEVSERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// SignKey signs and verifies session tokens.
	// Env: DEVSERVER_SIGN_KEY
	SignKey string `env:"SIGN_KEY"`

	// Issuer is the expected token issuer.
	// Env: DEVSERVER_ISSUER
	Issuer string `env:"ISSUER"`

	// TokenTTL is the lifetime of tokens printed at startup.
	// Env: DEVSERVER_TOKEN_TTL
	TokenTTL time.Duration `env:"TOKEN_TTL"`

	// UserID is the user a startup token is issued for. Zero disables it.
	// Env: DEVSERVER_USER_ID
	UserID int64 `env:"USER_ID"`
}

type devServerEnv struct {
	DevServer DevServer `envPrefix:"DEVSERVER_"`
}

// GetDevServerConfig builds the development server configuration from args,
// the environment and defaults, in that order of precedence.
func GetDevServerConfig(args []string) (*DevServer, error) {
	fromFlags, err := parseDevServerFlags(args)
	if err != nil {
		return nil, err
	}

	fromEnv := &devServerEnv{}
	if err = parseEnv(fromEnv); err != nil {
		return nil, err
	}

	cfg := new(DevServer)
	for _, layer := range []*DevServer{fromFlags, &fromEnv.DevServer, defaultDevServerConfig()} {
		if err = mergo.Merge(cfg, layer); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return cfg, cfg.validate()
}

func parseDevServerFlags(args []string) (*DevServer, error) {
	cfg := &DevServer{}

	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	fs.StringVar(&cfg.Address, "a", "", "listen address")
	fs.StringVar(&cfg.SignKey, "sign-key", "", "token signing key")
	fs.StringVar(&cfg.Issuer, "issuer", "", "token issuer")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "lifetime of the startup token")
	fs.Int64Var(&cfg.UserID, "user-id", 0, "issue a startup token for this user")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return cfg, nil
}

func defaultDevServerConfig() *DevServer {
	return &DevServer{
		Address:  defaultDevServerAddress,
		Issuer:   defaultDevServerIssuer,
		TokenTTL: defaultDevServerTokenTTL,
	}
}

func (cfg *DevServer) validate() error {
	var errs []error
	if cfg.SignKey == "" {
		errs = append(errs, errors.New("sign key is required"))
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if cfg.UserID < 0 {
		errs = append(errs, errors.New("user id must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDevServerConfigs, errors.Join(errs...))
	}
	return nil
}
