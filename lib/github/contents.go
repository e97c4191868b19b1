// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// GetContents fetches a single file from a repository's default branch.
// A missing file surfaces as an *APIError satisfying IsNotFound.
func (c *Client) GetContents(ctx context.Context, owner, repo, path string) (*Content, error) {
	endpoint := contentsPath(owner, repo, path)
	var content Content
	if err := c.get(ctx, endpoint, &content); err != nil {
		return nil, fmt.Errorf("fetching %s from %s/%s: %w", path, owner, repo, err)
	}
	return &content, nil
}

// PutContents creates or updates a single file, committing it to the
// repository's default branch. Creating passes an empty sha; updating
// an existing file requires its current blob SHA (from GetContents).
// The payload is base64-encoded on the wire as the contents API
// requires.
func (c *Client) PutContents(ctx context.Context, owner, repo, path, message string, data []byte, sha string) (*ContentCommit, error) {
	request := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha,omitempty"`
	}{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     sha,
	}

	endpoint := contentsPath(owner, repo, path)
	var commit ContentCommit
	if err := c.put(ctx, endpoint, request, &commit); err != nil {
		return nil, fmt.Errorf("committing %s to %s/%s: %w", path, owner, repo, err)
	}
	return &commit, nil
}

// Decoded returns the file payload with the wire encoding removed.
func (content *Content) Decoded() ([]byte, error) {
	switch content.Encoding {
	case "base64":
		// The contents API wraps base64 payloads with newlines.
		compact := strings.ReplaceAll(content.Content, "\n", "")
		data, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return nil, fmt.Errorf("github: decoding %s: %w", content.Path, err)
		}
		return data, nil
	case "", "none":
		return []byte(content.Content), nil
	default:
		return nil, fmt.Errorf("github: unsupported content encoding %q for %s", content.Encoding, content.Path)
	}
}

func contentsPath(owner, repo, path string) string {
	// Escape each path segment separately so slashes in the file path
	// survive as separators.
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(owner), url.PathEscape(repo), strings.Join(segments, "/"))
}
