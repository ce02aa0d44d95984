// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", time.Hour, "key"},
		{"zero duration", "iss", 0, "key"},
		{"empty key", "iss", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, 1, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	signed, err := GenerateJWTToken("test-issuer", 456, 5*time.Minute, "secret-key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ValidateAndParseJWTToken(signed, "secret-key", "test-issuer")
	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if userID != 456 {
		t.Errorf("expected userID 456, got %d", userID)
	}
}

func TestValidateAndParseJWTToken_Rejects(t *testing.T) {
	valid, _ := GenerateJWTToken("real-issuer", 1, time.Hour, "key")
	expired, _ := GenerateJWTToken("real-issuer", 1, -time.Second, "key")

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{"wrong key", valid, "wrong-key", "real-issuer"},
		{"wrong issuer", valid, "key", "fake-issuer"},
		{"expired", expired, "key", "real-issuer"},
		{"malformed", "not.a.token", "key", "real-issuer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndParseJWTToken(tt.token, tt.key, tt.issuer)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	_, err := ValidateAndParseJWTToken(expired, "key", "real-issuer")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected jwt.ErrTokenExpired, got %v", err)
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer abc", "abc", false},
		{"  Bearer   abc  ", "abc", false},
		{"Bearer", "", true},
		{"Basic abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBearerToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestParseUserIDFromJWT(t *testing.T) {
	signed, _ := GenerateJWTToken("any", 77, time.Hour, "key")

	userID, err := ParseUserIDFromJWT(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != 77 {
		t.Errorf("expected 77, got %d", userID)
	}
}

func TestParseUserIDFromJWT_BadSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"})
	signed, err := token.SignedString([]byte("key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err = ParseUserIDFromJWT(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	if _, err = ParseUserIDFromJWT("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
