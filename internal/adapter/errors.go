// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
)

// ErrTransient marks a failure that says nothing about the submitted data:
// the remote authority could not be reached or could not answer right now.
var ErrTransient = errors.New("remote authority unavailable")

// RejectionError is an authoritative refusal of submitted data.
type RejectionError struct {
	// StatusCode is the HTTP status the refusal arrived with.
	StatusCode int
	// Code is the machine readable reason, e.g. "alreadysubmitted".
	Code    string
	Message string
}

func (e *RejectionError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("rejected by remote authority: %s", e.Message)
	}
	return fmt.Sprintf("rejected by remote authority (%s): %s", e.Code, e.Message)
}

// IsDeclaredRejection reports whether err carries a [*RejectionError] and
// returns it.
func IsDeclaredRejection(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// IsTransient reports whether err wraps [ErrTransient].
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
