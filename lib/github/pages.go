// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
)

// EnablePages turns on GitHub Pages for a repository, serving from the
// root of the given branch. Pages already being enabled is not an
// error; the existing site configuration is returned instead.
func (c *Client) EnablePages(ctx context.Context, owner, repo, branch string) (*Pages, error) {
	request := struct {
		Source PagesSource `json:"source"`
	}{
		Source: PagesSource{Branch: branch, Path: "/"},
	}

	endpoint := pagesPath(owner, repo)
	var site Pages
	err := c.post(ctx, endpoint, request, &site)
	if err == nil {
		return &site, nil
	}

	if IsConflict(err) {
		return c.GetPages(ctx, owner, repo)
	}
	return nil, fmt.Errorf("enabling pages for %s/%s: %w", owner, repo, err)
}

// GetPages fetches the Pages site configuration for a repository.
func (c *Client) GetPages(ctx context.Context, owner, repo string) (*Pages, error) {
	var site Pages
	if err := c.get(ctx, pagesPath(owner, repo), &site); err != nil {
		return nil, fmt.Errorf("fetching pages for %s/%s: %w", owner, repo, err)
	}
	return &site, nil
}

func pagesPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s/pages", url.PathEscape(owner), url.PathEscape(repo))
}
