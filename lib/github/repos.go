// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// CreateRepoRequest describes a repository to create under the
// authenticated user.
type CreateRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

// CreateUserRepo creates a repository owned by the authenticated user.
// A repository that already exists under that name surfaces as an
// *APIError satisfying IsConflict.
func (c *Client) CreateUserRepo(ctx context.Context, req CreateRepoRequest) (*Repository, error) {
	var repo Repository
	if err := c.post(ctx, "/user/repos", req, &repo); err != nil {
		return nil, fmt.Errorf("creating repository %q: %w", req.Name, err)
	}
	return &repo, nil
}

// GetRepo fetches a repository by owner and name.
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (*Repository, error) {
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
	var r Repository
	if err := c.get(ctx, path, &r); err != nil {
		return nil, fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}
	return &r, nil
}
