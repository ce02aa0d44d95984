// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package table

import (
	"fmt"
	"strings"
)

// CachingStrategy decides whether and when a table mirrors its rows in
// memory.
type CachingStrategy int

const (
	// CachingNone never caches; every operation goes to the row store.
	CachingNone CachingStrategy = iota
	// CachingEager loads the whole table on Initialize and serves every
	// read from memory afterwards.
	CachingEager
	// CachingLazy caches rows the first time they are fetched by primary
	// key or when they are inserted. Other reads go to the row store.
	CachingLazy
)

func (s CachingStrategy) String() string {
	switch s {
	case CachingEager:
		return "eager"
	case CachingLazy:
		return "lazy"
	case CachingNone:
		return "none"
	default:
		return fmt.Sprintf("CachingStrategy(%d)", int(s))
	}
}

// ParseCachingStrategy parses "eager", "lazy" or "none" case-insensitively.
func ParseCachingStrategy(s string) (CachingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eager":
		return CachingEager, nil
	case "lazy":
		return CachingLazy, nil
	case "none":
		return CachingNone, nil
	default:
		return CachingNone, fmt.Errorf("%w: %q", ErrUnknownCachingStrategy, s)
	}
}

// Config is fixed for the lifetime of a table.
type Config struct {
	CachingStrategy CachingStrategy
}

// ConfigFor returns the configuration of the named table: the override from
// overrides when present, fallback otherwise.
func ConfigFor(name string, fallback CachingStrategy, overrides map[string]string) (Config, error) {
	value, ok := overrides[name]
	if !ok {
		return Config{CachingStrategy: fallback}, nil
	}

	strategy, err := ParseCachingStrategy(value)
	if err != nil {
		return Config{}, fmt.Errorf("table %s: %w", name, err)
	}

	return Config{CachingStrategy: strategy}, nil
}
