// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package github

// Repository is a GitHub repository.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	Description   string `json:"description"`
}

// Content is a file returned by the contents API. The blob SHA is
// required when updating the file; Content carries the base64 payload
// when Encoding is "base64".
type Content struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// ContentCommit is the response from a contents API write: the new
// blob and the commit that introduced it.
type ContentCommit struct {
	Content Content       `json:"content"`
	Commit  CommitSummary `json:"commit"`
}

// CommitSummary is the commit metadata embedded in contents API
// responses.
type CommitSummary struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
}

// Pages is a GitHub Pages site configuration.
type Pages struct {
	URL     string      `json:"url"`
	HTMLURL string      `json:"html_url"`
	Status  string      `json:"status"` // "built", "building", "errored", or "" before first build
	Source  PagesSource `json:"source"`
}

// PagesSource is the branch and path a Pages site is served from.
type PagesSource struct {
	Branch string `json:"branch"`
	Path   string `json:"path"`
}
