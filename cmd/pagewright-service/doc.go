// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Command pagewright-service receives build task requests over HTTP
// and turns each one into a deployed single-page application.
//
// A POST to /api-endpoint is validated and acknowledged immediately;
// the pipeline then runs detached: generate the application with the
// Gemini API, publish it to a GitHub repository with Pages enabled,
// and deliver an evaluation callback to the caller-supplied URL.
//
// Configuration comes from an optional YAML file (PAGEWRIGHT_CONFIG or
// --config) plus required environment variables: PAGEWRIGHT_SECRET,
// GEMINI_API_KEY, GITHUB_TOKEN, and GITHUB_OWNER. The process refuses
// to start when any of them is missing.
package main
