// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package table

import "errors"

// Errors defined by the table itself. Row store errors, including
// store.ErrRecordNotFound and store.ErrConstraintViolation, are returned
// unchanged.
var (
	// ErrNotInitialized is returned by an eager table used before Initialize.
	ErrNotInitialized = errors.New("table not initialized")

	// ErrEmptyPrimaryKey is returned by New when no primary key field is
	// given.
	ErrEmptyPrimaryKey = errors.New("primary key must have at least one field")

	// ErrInvalidPrimaryKey is returned when a key lookup omits a primary key
	// field.
	ErrInvalidPrimaryKey = errors.New("invalid primary key")

	// ErrUnknownCachingStrategy is returned when parsing an unknown strategy
	// name.
	ErrUnknownCachingStrategy = errors.New("unknown caching strategy")

	// ErrDecodingRecord wraps a mapper failure.
	ErrDecodingRecord = errors.New("error decoding record")
)
