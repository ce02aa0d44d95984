// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDevServerConfig_Defaults(t *testing.T) {
	t.Setenv("DEVSERVER_SIGN_KEY", "secret")

	cfg, err := GetDevServerConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultDevServerAddress, cfg.Address)
	assert.Equal(t, defaultDevServerIssuer, cfg.Issuer)
	assert.Equal(t, defaultDevServerTokenTTL, cfg.TokenTTL)
	assert.Equal(t, "secret", cfg.SignKey)
	assert.Zero(t, cfg.UserID)
}

func TestGetDevServerConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DEVSERVER_SIGN_KEY", "from-env")
	t.Setenv("DEVSERVER_ADDRESS", "env:1")

	cfg, err := GetDevServerConfig([]string{"-a", "flag:2", "-user-id", "7", "-token-ttl", "1m"})
	require.NoError(t, err)

	assert.Equal(t, "flag:2", cfg.Address)
	assert.Equal(t, "from-env", cfg.SignKey)
	assert.Equal(t, int64(7), cfg.UserID)
	assert.Equal(t, time.Minute, cfg.TokenTTL)
}

func TestGetDevServerConfig_MissingSignKey(t *testing.T) {
	t.Setenv("DEVSERVER_SIGN_KEY", "")

	_, err := GetDevServerConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidDevServerConfigs)
}

func TestGetDevServerConfig_BadFlag(t *testing.T) {
	t.Setenv("DEVSERVER_SIGN_KEY", "secret")

	_, err := GetDevServerConfig([]string{"-token-ttl", "soon"})
	assert.Error(t, err)
}
