// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by [RowStore] implementations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a single-row lookup matches nothing.
	// It is expected in normal control flow (e.g. nothing cached yet).
	ErrRecordNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when an insert would create a second
	// row with an existing primary key.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidField is returned when a column is missing or holds a value
	// of an unexpected type.
	ErrInvalidField = errors.New("invalid field")
)

// Low-level database operation errors, wrapped together with the driver error.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL statement fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a statement fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRows is returned when reading column values fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
