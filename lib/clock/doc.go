// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for deterministic tests. Retry backoff,
// API rate-limit waits, and the Pages reachability poll all sleep
// through an injected Clock so tests can advance time synthetically
// instead of sleeping for real.
package clock
