// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package generator builds a deployable single-page application from
// a task brief. It constructs a prompt from the brief, the checklist,
// and decoded attachments, invokes the generative provider once, and
// normalizes the response into a self-contained HTML document.
//
// Generation never fails: any provider error is recovered by a
// deterministic fallback document embedding the brief and checklist,
// so the pipeline always has something to deploy.
package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pagewright/pagewright/lib/llm"
	"github.com/pagewright/pagewright/lib/task"
)

// Document is one round's generated output: the single-page app plus
// its companion readme. The license is a fixed constant owned by the
// publisher, not generated here.
type Document struct {
	HTML   string
	Readme string
}

// Config holds configuration for creating a Generator.
type Config struct {
	// Provider is the generative model backend. Required.
	Provider llm.Provider

	// Model is the provider model identifier. Required.
	Model string

	// MaxTokens caps the response length. Defaults to 16384.
	MaxTokens int64

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Generator produces deployable documents from task briefs.
type Generator struct {
	provider  llm.Provider
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// New creates a Generator from the given configuration.
func New(config Config) *Generator {
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 16384
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		provider:  config.Provider,
		model:     config.Model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Generate builds the document for one round. Exactly one provider
// call is attempted; on any provider failure the deterministic
// fallback document is returned instead. The readme is rendered
// locally from the brief and checklist, keeping the provider output
// constrained to a single document.
func (generator *Generator) Generate(ctx context.Context, request task.Request) Document {
	prompt := buildPrompt(request)

	response, err := generator.provider.Complete(ctx, llm.Request{
		Model:     generator.model,
		System:    systemPrompt,
		MaxTokens: generator.maxTokens,
		Messages:  []llm.Message{prompt},
	})
	if err != nil {
		generator.logger.Error("generation failed, using fallback document",
			"task", request.Task,
			"round", request.Round,
			"error", err,
		)
		return fallbackDocument(request)
	}

	html := normalizeHTML(response.Text())
	if html == "" {
		generator.logger.Error("provider returned empty content, using fallback document",
			"task", request.Task,
			"round", request.Round,
			"stop_reason", response.StopReason,
		)
		return fallbackDocument(request)
	}

	generator.logger.Info("document generated",
		"task", request.Task,
		"round", request.Round,
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens,
	)

	return Document{
		HTML:   html,
		Readme: renderReadme(request),
	}
}

// normalizeHTML post-processes raw provider output into a deployable
// document: strips surrounding code-fence markup and guarantees the
// text begins with a doctype declaration.
func normalizeHTML(raw string) string {
	text := strings.TrimSpace(raw)
	text = stripCodeFence(text)
	if text == "" {
		return ""
	}

	if !strings.HasPrefix(strings.ToLower(text), "<!doctype") {
		text = "<!DOCTYPE html>\n" + text
	}
	return text
}

// stripCodeFence removes a surrounding Markdown code fence, including
// an optional language tag on the opening line.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := text[3:]
	// Drop the language tag (e.g. "html") up to the first newline.
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		body = body[newline+1:]
	} else {
		return ""
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
