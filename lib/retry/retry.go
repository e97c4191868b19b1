// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package retry provides bounded retry loops with clock-injected
// sleeping. Two schedules cover the service's needs: fixed delay
// (the Pages reachability poll) and exponential backoff (the
// evaluation callback). Both sleep between attempts but never after
// the final one, and both stop immediately when the context is
// cancelled mid-wait.
package retry

import (
	"context"
	"time"

	"github.com/pagewright/pagewright/lib/clock"
)

// Policy describes a bounded retry schedule.
type Policy struct {
	// MaxAttempts is the total number of calls, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Delay is the wait before the second attempt. For a fixed
	// schedule every inter-attempt wait is Delay; for an exponential
	// schedule the wait doubles each attempt (Delay, 2*Delay,
	// 4*Delay, ...).
	Delay time.Duration

	// Exponential selects the doubling schedule.
	Exponential bool
}

// Fixed returns a fixed-delay policy.
func Fixed(maxAttempts int, delay time.Duration) Policy {
	return Policy{MaxAttempts: maxAttempts, Delay: delay}
}

// Exponential returns a doubling-backoff policy starting at base.
func Exponential(maxAttempts int, base time.Duration) Policy {
	return Policy{MaxAttempts: maxAttempts, Delay: base, Exponential: true}
}

// delayBefore returns the wait preceding the given attempt (attempts
// are numbered from 0; attempt 0 has no preceding wait).
func (p Policy) delayBefore(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if !p.Exponential {
		return p.Delay
	}
	return p.Delay << (attempt - 1)
}

// Do calls fn up to MaxAttempts times, sleeping per the policy between
// attempts. Returns nil as soon as fn succeeds. After the final failed
// attempt, returns the last error without sleeping. If the context is
// cancelled while waiting, returns the context's error.
func (p Policy) Do(ctx context.Context, clk clock.Clock, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastError error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-clk.After(p.delayBefore(attempt)):
			}
		}

		if err := fn(attempt); err != nil {
			lastError = err
			continue
		}
		return nil
	}
	return lastError
}
