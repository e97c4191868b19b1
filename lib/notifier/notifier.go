// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package notifier delivers the completion callback. One POST per
// attempt to the caller-supplied evaluation URL, with exponential
// backoff between attempts. Delivery is best-effort: exhausting the
// retry budget is reported to the caller but does not roll back the
// deployment the callback describes.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pagewright/pagewright/lib/clock"
	"github.com/pagewright/pagewright/lib/httpx"
	"github.com/pagewright/pagewright/lib/retry"
	"github.com/pagewright/pagewright/lib/task"
)

// Retry bounds: five attempts with delays doubling from one second
// (1, 2, 4, 8, 16), never sleeping after the final attempt.
const (
	maxAttempts = 5
	baseDelay   = time.Second
)

// requestTimeout bounds each callback POST when no HTTPClient is
// injected. A stalled receiver counts as a failed attempt instead of
// wedging the pipeline goroutine.
const requestTimeout = 30 * time.Second

// NotifyError reports that callback delivery exhausted every retry
// attempt. The pipeline logs it and finishes; the deployed artifact
// still exists.
type NotifyError struct {
	URL      string
	Attempts int
	Err      error
}

func (err *NotifyError) Error() string {
	return fmt.Sprintf("notifier: delivery to %s failed after %d attempts: %v",
		err.URL, err.Attempts, err.Err)
}

func (err *NotifyError) Unwrap() error { return err.Err }

// Config holds configuration for creating a Notifier.
type Config struct {
	// HTTPClient performs the callback POSTs. Defaults to a client
	// with a per-request timeout.
	HTTPClient *http.Client

	// Clock provides time operations for backoff sleeps. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Notifier posts evaluation payloads to callback URLs.
type Notifier struct {
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a Notifier from the given configuration.
func New(config Config) *Notifier {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}
}

// Notify posts payload as JSON to url. Success is exactly HTTP 200;
// any other status or transport error counts as a failed attempt. A
// single 200 at any attempt stops retrying immediately. Returns a
// *NotifyError after the final attempt fails.
func (notifier *Notifier) Notify(ctx context.Context, url string, payload task.EvaluationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notifier: encoding payload: %w", err)
	}

	policy := retry.Exponential(maxAttempts, baseDelay)
	err = policy.Do(ctx, notifier.clock, func(attempt int) error {
		attemptErr := notifier.post(ctx, url, body)
		if attemptErr != nil {
			notifier.logger.Warn("callback delivery failed",
				"url", url,
				"task", payload.Task,
				"round", payload.Round,
				"attempt", attempt,
				"error", attemptErr,
			)
			return attemptErr
		}
		notifier.logger.Info("callback delivered",
			"url", url,
			"task", payload.Task,
			"round", payload.Round,
			"attempt", attempt,
		)
		return nil
	})
	if err != nil {
		return &NotifyError{URL: url, Attempts: maxAttempts, Err: err}
	}
	return nil
}

// post performs one delivery attempt.
func (notifier *Notifier) post(ctx context.Context, url string, body []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := notifier.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("callback returned HTTP %d: %s",
			response.StatusCode, httpx.ErrorBody(response.Body))
	}
	return nil
}
