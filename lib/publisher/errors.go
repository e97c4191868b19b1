// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package publisher

import (
	"errors"
	"fmt"

	"github.com/pagewright/pagewright/lib/github"
)

// RepoConflictError means the repository name is already taken. The
// create path cannot proceed; the caller chose the wrong round or the
// name collides with an unrelated repository.
type RepoConflictError struct {
	Name string
}

func (err *RepoConflictError) Error() string {
	return fmt.Sprintf("publisher: repository %q already exists", err.Name)
}

// ProviderAuthError means GitHub rejected the configured credentials.
type ProviderAuthError struct {
	Name string
	Err  error
}

func (err *ProviderAuthError) Error() string {
	return fmt.Sprintf("publisher: authentication failed for %q: %v", err.Name, err.Err)
}

func (err *ProviderAuthError) Unwrap() error { return err.Err }

// PublishError carries any other provider failure, with the provider's
// status and message preserved via the wrapped error.
type PublishError struct {
	Name       string
	StatusCode int
	Err        error
}

func (err *PublishError) Error() string {
	return fmt.Sprintf("publisher: deploying %q failed: %v", err.Name, err.Err)
}

func (err *PublishError) Unwrap() error { return err.Err }

// mapError classifies a GitHub API error into the publisher's error
// taxonomy. All three classes are terminal for the current pipeline
// execution.
func (publisher *Publisher) mapError(name string, err error) error {
	switch {
	case github.IsConflict(err):
		return &RepoConflictError{Name: name}
	case github.IsUnauthorized(err):
		return &ProviderAuthError{Name: name, Err: err}
	}

	publishErr := &PublishError{Name: name, Err: err}
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		publishErr.StatusCode = apiErr.StatusCode
	}
	return publishErr
}
