// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// for the sync client.
//
// Configuration is assembled from multiple sources; earlier sources win for
// non-zero fields:
//  1. Command-line flags
//  2. Environment variables
//  3. JSON or YAML config file
//  4. Built-in defaults
//
// The main entry point is [GetClientConfig].
package config
