// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"github.com/pagewright/pagewright/lib/generator"
	"github.com/pagewright/pagewright/lib/notifier"
	"github.com/pagewright/pagewright/lib/publisher"
	"github.com/pagewright/pagewright/lib/task"
	"github.com/pagewright/pagewright/lib/workspace"
)

// pipeline runs one task execution end to end: generate the document,
// publish it, confirm the Pages URL, and deliver the evaluation
// callback. It executes on a detached worker; its errors never reach
// the HTTP caller and are observable only through logs and the
// absence of a callback.
type pipeline struct {
	generator   *generator.Generator
	publisher   *publisher.Publisher
	notifier    *notifier.Notifier
	scratchRoot string
	logger      *slog.Logger
}

// Run executes the pipeline for one request. Steps are strictly
// sequential: generation completes before any publish operation, and
// publishing completes before notification. The scratch directory is
// removed on every exit path.
func (p *pipeline) Run(ctx context.Context, request task.Request) {
	name := request.RepoName()
	logger := p.logger.With("task", request.Task, "repo", name, "round", request.Round)

	scratch, err := workspace.Create(p.scratchRoot, name)
	if err != nil {
		logger.Error("pipeline aborted: scratch directory unavailable", "error", err)
		return
	}
	defer func() {
		if err := scratch.Cleanup(); err != nil {
			logger.Warn("scratch cleanup failed", "error", err)
		}
	}()

	document := p.generator.Generate(ctx, request)

	// Stage the generated files into the scratch workspace before any
	// publish call; the deferred Cleanup removes them with the rest of
	// the workspace on every exit path.
	if err := scratch.WriteFile("index.html", []byte(document.HTML)); err != nil {
		logger.Warn("failed to stage document", "error", err)
	}
	if err := scratch.WriteFile("README.md", []byte(document.Readme)); err != nil {
		logger.Warn("failed to stage readme", "error", err)
	}

	var result *publisher.DeploymentResult
	if request.IsRevision() {
		result, err = p.publisher.Update(ctx, name, document.HTML, document.Readme)
	} else {
		result, err = p.publisher.CreateAndDeploy(ctx, name, document.HTML, document.Readme)
	}
	if err != nil {
		// Terminal: no deployment exists, so no callback is sent.
		logger.Error("publish failed", "error", err)
		return
	}
	logger.Info("deployment complete",
		"repo_url", result.RepoURL,
		"commit_sha", result.CommitSHA,
		"pages_url", result.PagesURL,
	)

	// Reachability is best-effort: Pages propagation can outlast the
	// poll, so exhaustion is a warning and the callback still carries
	// the constructed URL.
	if err := p.publisher.AwaitReachable(ctx, result.PagesURL); err != nil {
		logger.Warn("pages reachability not confirmed", "error", err)
	}

	payload := task.EvaluationPayload{
		Email:     request.Email,
		Task:      request.Task,
		Round:     request.Round,
		Nonce:     request.Nonce,
		RepoURL:   result.RepoURL,
		CommitSHA: result.CommitSHA,
		PagesURL:  result.PagesURL,
	}
	if err := p.notifier.Notify(ctx, request.EvaluationURL, payload); err != nil {
		// The deployed artifact exists; delivery failure is logged,
		// not propagated.
		logger.Error("evaluation callback undelivered", "error", err)
	}
}
