// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWith(t *testing.T, status int, body string) *resty.Response {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	resp, err := resty.New().R().SetContext(context.Background()).Get(srv.URL)
	require.NoError(t, err)
	return resp
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantNil       bool
		wantRejection bool
		wantCode      string
		wantMessage   string
	}{
		{name: "ok", status: http.StatusOK, wantNil: true},
		{name: "no content", status: http.StatusNoContent, wantNil: true},
		{name: "bad request with body", status: http.StatusBadRequest, body: `{"error_code":"invalidparameter","message":"bad"}`, wantRejection: true, wantCode: "invalidparameter", wantMessage: "bad"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error_code":"nopermission","message":"no"}`, wantRejection: true, wantCode: "nopermission", wantMessage: "no"},
		{name: "not found plain text", status: http.StatusNotFound, body: "gone"},
		{name: "not found html page", status: http.StatusNotFound, body: "<html><body><h1>404 Not Found</h1><hr>nginx</body></html>"},
		{name: "conflict empty body", status: http.StatusConflict},
		{name: "bad request json without code", status: http.StatusBadRequest, body: `{"message":"bad"}`},
		{name: "forbidden unrelated json", status: http.StatusForbidden, body: `{"detail":"denied"}`},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, body: `{"error_code":"emptytext","message":"empty"}`, wantRejection: true, wantCode: "emptytext", wantMessage: "empty"},
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "request timeout", status: http.StatusRequestTimeout},
		{name: "too many requests", status: http.StatusTooManyRequests},
		{name: "internal error", status: http.StatusInternalServerError},
		{name: "bad gateway", status: http.StatusBadGateway},
		{name: "unavailable", status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapHTTPError(responseWith(t, tt.status, tt.body))

			if tt.wantNil {
				assert.NoError(t, err)
				return
			}

			rejection, ok := IsDeclaredRejection(err)
			if !tt.wantRejection {
				assert.False(t, ok)
				assert.ErrorIs(t, err, ErrTransient)
				return
			}

			require.True(t, ok, "expected rejection, got %v", err)
			assert.False(t, IsTransient(err))
			assert.Equal(t, tt.status, rejection.StatusCode)
			assert.Equal(t, tt.wantCode, rejection.Code)
			assert.Equal(t, tt.wantMessage, rejection.Message)
		})
	}
}

func TestRejectionError_Error(t *testing.T) {
	assert.Equal(t, "rejected by remote authority (x): y", (&RejectionError{Code: "x", Message: "y"}).Error())
	assert.Equal(t, "rejected by remote authority: y", (&RejectionError{Message: "y"}).Error())
}
