// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package publisher deploys generated documents to GitHub. The create
// path makes a public repository, commits the license, readme, and
// application document, and enables GitHub Pages; the update path
// commits new revisions of the mutable files. A reachability poll
// confirms the Pages URL serves successfully after deployment.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pagewright/pagewright/lib/clock"
	"github.com/pagewright/pagewright/lib/github"
	"github.com/pagewright/pagewright/lib/retry"
)

const (
	licensePath  = "LICENSE"
	readmePath   = "README.md"
	documentPath = "index.html"

	// deployBranch is the single deployment branch. Pages serves from
	// its root.
	deployBranch = "main"
)

// Reachability poll bounds. Pages deployments typically propagate
// within a minute.
const (
	reachabilityAttempts = 10
	reachabilityDelay    = 5 * time.Second
)

// pollTimeout bounds each reachability probe when no HTTPClient is
// injected; a hung probe counts as one failed attempt.
const pollTimeout = 10 * time.Second

// DeploymentResult identifies a completed deployment. Consumed by the
// notifier; not persisted locally.
type DeploymentResult struct {
	RepoURL   string
	CommitSHA string
	PagesURL  string
}

// Config holds configuration for creating a Publisher.
type Config struct {
	// Client is the GitHub API client. Required.
	Client *github.Client

	// Owner is the GitHub account that owns created repositories.
	// Required.
	Owner string

	// HTTPClient performs the Pages reachability poll. Defaults to a
	// client with a per-request timeout.
	HTTPClient *http.Client

	// Clock provides time operations for the reachability poll.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Publisher deploys documents to GitHub repositories.
type Publisher struct {
	client     *github.Client
	owner      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a Publisher from the given configuration.
func New(config Config) *Publisher {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: pollTimeout}
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:     config.Client,
		owner:      config.Owner,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}
}

// CreateAndDeploy creates a new public repository named name, commits
// the license, readme, and document in that order, and enables GitHub
// Pages from the deployment branch root. A name collision fails with
// *RepoConflictError.
func (publisher *Publisher) CreateAndDeploy(ctx context.Context, name, document, readme string) (*DeploymentResult, error) {
	repo, err := publisher.client.CreateUserRepo(ctx, github.CreateRepoRequest{
		Name:        name,
		Description: "Auto-generated application",
		Private:     false,
	})
	if err != nil {
		return nil, publisher.mapError(name, err)
	}
	publisher.logger.Info("repository created", "repo", repo.FullName)

	// Three separate commits, license first. The document commit is
	// last so its SHA identifies the complete deployment.
	files := []struct {
		path    string
		message string
		content string
	}{
		{licensePath, "Add MIT License", mitLicense},
		{readmePath, "Add README", readme},
		{documentPath, "Add application code", document},
	}

	var lastCommit string
	for _, file := range files {
		commit, err := publisher.client.PutContents(ctx, publisher.owner, name,
			file.path, file.message, []byte(file.content), "")
		if err != nil {
			return nil, publisher.mapError(name, err)
		}
		lastCommit = commit.Commit.SHA
	}

	pagesURL, err := publisher.enablePages(ctx, name)
	if err != nil {
		return nil, publisher.mapError(name, err)
	}

	return &DeploymentResult{
		RepoURL:   repo.HTMLURL,
		CommitSHA: lastCommit,
		PagesURL:  pagesURL,
	}, nil
}

// Update commits new revisions of the readme and document to an
// existing repository. Each file is fetched first: present files are
// updated against their current blob SHA, absent files are created.
// The license is never touched on update.
func (publisher *Publisher) Update(ctx context.Context, name, document, readme string) (*DeploymentResult, error) {
	repo, err := publisher.client.GetRepo(ctx, publisher.owner, name)
	if err != nil {
		return nil, publisher.mapError(name, err)
	}

	if _, err := publisher.putOrCreate(ctx, name, readmePath, "Update README", readme); err != nil {
		return nil, publisher.mapError(name, err)
	}

	commit, err := publisher.putOrCreate(ctx, name, documentPath, "Update application code", document)
	if err != nil {
		return nil, publisher.mapError(name, err)
	}

	return &DeploymentResult{
		RepoURL:   repo.HTMLURL,
		CommitSHA: commit.Commit.SHA,
		PagesURL:  publisher.pagesURL(name),
	}, nil
}

// putOrCreate commits content to path, updating the existing file if
// present and creating it otherwise. Either file may be independently
// missing on a revision round.
func (publisher *Publisher) putOrCreate(ctx context.Context, name, path, message, content string) (*github.ContentCommit, error) {
	sha := ""
	existing, err := publisher.client.GetContents(ctx, publisher.owner, name, path)
	switch {
	case err == nil:
		sha = existing.SHA
	case github.IsNotFound(err):
		// File absent: fall through to create.
	default:
		return nil, err
	}

	return publisher.client.PutContents(ctx, publisher.owner, name, path, message, []byte(content), sha)
}

// enablePages turns on Pages for the repository and returns the site
// URL. Pages already being enabled is tolerated. The URL is
// constructed from the owner and name when the API does not report
// one yet.
func (publisher *Publisher) enablePages(ctx context.Context, name string) (string, error) {
	site, err := publisher.client.EnablePages(ctx, publisher.owner, name, deployBranch)
	if err != nil {
		return "", err
	}
	if site.HTMLURL != "" {
		return site.HTMLURL, nil
	}
	return publisher.pagesURL(name), nil
}

func (publisher *Publisher) pagesURL(name string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", publisher.owner, name)
}

// AwaitReachable polls the Pages URL until it returns HTTP 200,
// bounded by a fixed attempt count with a fixed delay between
// attempts. Exhausting the bound returns an error; callers treat that
// as a warning, since unreachability is usually transient propagation
// delay on the provider side.
func (publisher *Publisher) AwaitReachable(ctx context.Context, pagesURL string) error {
	policy := retry.Fixed(reachabilityAttempts, reachabilityDelay)

	err := policy.Do(ctx, publisher.clock, func(attempt int) error {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, pagesURL, nil)
		if err != nil {
			return err
		}
		response, err := publisher.httpClient.Do(request)
		if err != nil {
			publisher.logger.Info("pages not reachable yet",
				"url", pagesURL, "attempt", attempt, "error", err)
			return err
		}
		response.Body.Close()

		if response.StatusCode != http.StatusOK {
			publisher.logger.Info("pages not reachable yet",
				"url", pagesURL, "attempt", attempt, "status", response.StatusCode)
			return fmt.Errorf("pages returned HTTP %d", response.StatusCode)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publisher: pages at %s not reachable after %d attempts: %w",
			pagesURL, reachabilityAttempts, err)
	}

	publisher.logger.Info("pages reachable", "url", pagesURL)
	return nil
}
