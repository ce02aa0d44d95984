// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment through the `env` and
// `envPrefix` struct tags. Unset variables leave fields untouched; every
// malformed value is reported, not just the first.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err == nil {
		return nil
	}

	var aggregate env.AggregateError
	if errors.As(err, &aggregate) && len(aggregate.Errors) > 0 {
		return fmt.Errorf("environment config: %w", errors.Join(aggregate.Errors...))
	}

	return fmt.Errorf("environment config: %w", err)
}
