// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client application runtime.
//
// It wires local storage, the remote channel, the user session and the
// background workers (cron scheduler, connectivity probe, reconnect sync)
// into a single process lifecycle.
package client
