// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package github is a typed client for the slice of the GitHub REST
// API the publisher needs: repository creation, the contents API
// (create/update file, each call producing a commit), and GitHub
// Pages configuration.
//
// The client authenticates with a personal access token, tracks rate
// limit state from response headers (waiting preemptively when the
// quota is exhausted), and surfaces non-2xx responses as *APIError
// values with errors.As predicates (IsNotFound, IsConflict,
// IsUnauthorized).
package github
