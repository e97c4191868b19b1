// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package task defines the inbound task request, the outbound
// evaluation payload, and request validation.
package task

import (
	"fmt"
	"strings"
)

// Request is an inbound build request. Immutable once received.
type Request struct {
	// Secret is the shared secret authenticating the caller.
	Secret string `json:"secret"`

	// Email identifies the submitter; echoed back in the evaluation
	// payload.
	Email string `json:"email"`

	// Task is the task identifier. Sanitized via SanitizeName before
	// use as a repository name.
	Task string `json:"task"`

	// Round is the revision number, starting at 1. Round 1 creates
	// the repository; later rounds update it.
	Round int `json:"round"`

	// Nonce is an opaque caller token, echoed back verbatim.
	Nonce string `json:"nonce"`

	// Brief is the natural-language description of the app to build.
	Brief string `json:"brief"`

	// Checks is the ordered list of acceptance criteria.
	Checks []string `json:"checks"`

	// Attachments carry supplementary material as data URLs.
	Attachments []Attachment `json:"attachments"`

	// EvaluationURL receives the completion callback.
	EvaluationURL string `json:"evaluation_url"`
}

// Attachment is a named inline resource. URL is a data URL carrying
// the media type and base64 payload.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EvaluationPayload is the completion callback body, sent verbatim to
// the request's evaluation URL.
type EvaluationPayload struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// ValidationError reports a request that is missing required fields
// or carries out-of-range values. The caller can retry with a
// corrected request.
type ValidationError struct {
	// Problems lists every validation failure, not just the first.
	Problems []string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("task: invalid request: %s", strings.Join(err.Problems, "; "))
}

// Validate checks the request for required fields. Returns a
// *ValidationError listing every problem, or nil if the request is
// well-formed. The secret's value is checked elsewhere; Validate only
// requires its presence.
func (request *Request) Validate() error {
	var problems []string

	if request.Secret == "" {
		problems = append(problems, "secret is required")
	}
	if request.Email == "" {
		problems = append(problems, "email is required")
	}
	if request.Task == "" {
		problems = append(problems, "task is required")
	}
	if request.Brief == "" {
		problems = append(problems, "brief is required")
	}
	if request.EvaluationURL == "" {
		problems = append(problems, "evaluation_url is required")
	}
	if request.Round < 1 {
		problems = append(problems, fmt.Sprintf("round must be at least 1 (got %d)", request.Round))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsRevision reports whether this request updates an existing
// deployment rather than creating a new one.
func (request *Request) IsRevision() bool {
	return request.Round > 1
}

// RepoName returns the sanitized repository name for this task.
func (request *Request) RepoName() string {
	return SanitizeName(request.Task)
}

// SanitizeName converts a task identifier into a hosting-safe
// repository name: lowercase, with every run of non-alphanumeric
// characters collapsed to a single hyphen and leading/trailing
// hyphens trimmed.
func SanitizeName(name string) string {
	var builder strings.Builder
	builder.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = builder.Len() > 0
			continue
		}
		if pendingHyphen {
			builder.WriteByte('-')
			pendingHyphen = false
		}
		builder.WriteRune(r)
	}

	return builder.String()
}
