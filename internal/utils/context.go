// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides small helpers shared by the sync client and the
// development server: context keys, JSON response writing, the paced HTTP
// client, JWT handling and trace id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys so that values stored by
// this package never collide with string keys from other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey stores the authenticated user id (int64).
	UserIDCtxKey = contextKey("userID")
	// TraceIDCtxKey stores the request trace id (string).
	TraceIDCtxKey = contextKey("traceID")
)

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDCtxKey, userID)
}

// GetUserIDFromContext retrieves the user id stored by [WithUserID]. ok is
// false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDCtxKey, traceID)
}

// GetTraceIDFromContext returns the trace id stored by [WithTraceID], or "".
func GetTraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDCtxKey).(string)
	return traceID
}
