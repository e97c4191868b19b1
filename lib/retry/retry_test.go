// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pagewright/pagewright/lib/clock"
)

func TestDoStopsOnFirstSuccess(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	calls := 0
	err := Fixed(5, time.Second).Do(context.Background(), fake, func(int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if fake.WaiterCount() != 0 {
		t.Errorf("pending waiters = %d, want 0 (must not sleep before first attempt)", fake.WaiterCount())
	}
}

func TestDoExponentialDelays(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	failing := errors.New("unavailable")
	var attemptTimes []time.Time

	done := make(chan error, 1)
	go func() {
		done <- Exponential(5, time.Second).Do(context.Background(), fake, func(int) error {
			attemptTimes = append(attemptTimes, fake.Now())
			return failing
		})
	}()

	// Delays double: 1s, 2s, 4s, 8s between the five attempts, and no
	// sleep after the last.
	for _, step := range []time.Duration{1, 2, 4, 8} {
		fake.BlockUntil(1)
		fake.Advance(step * time.Second)
	}

	select {
	case err := <-done:
		if !errors.Is(err, failing) {
			t.Fatalf("Do = %v, want last attempt error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after final attempt")
	}

	if len(attemptTimes) != 5 {
		t.Fatalf("attempts = %d, want 5", len(attemptTimes))
	}
	start := attemptTimes[0]
	wantOffsets := []time.Duration{0, 1 * time.Second, 3 * time.Second, 7 * time.Second, 15 * time.Second}
	for i, want := range wantOffsets {
		if got := attemptTimes[i].Sub(start); got != want {
			t.Errorf("attempt %d at +%v, want +%v", i, got, want)
		}
	}
	if fake.WaiterCount() != 0 {
		t.Errorf("pending waiters = %d, want 0 (must not sleep after final attempt)", fake.WaiterCount())
	}
}

func TestDoFixedDelays(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var attemptTimes []time.Time
	done := make(chan error, 1)
	go func() {
		done <- Fixed(3, 5*time.Second).Do(context.Background(), fake, func(int) error {
			attemptTimes = append(attemptTimes, fake.Now())
			return errors.New("not yet")
		})
	}()

	for range 2 {
		fake.BlockUntil(1)
		fake.Advance(5 * time.Second)
	}
	<-done

	if len(attemptTimes) != 3 {
		t.Fatalf("attempts = %d, want 3", len(attemptTimes))
	}
	for i := 1; i < len(attemptTimes); i++ {
		if got := attemptTimes[i].Sub(attemptTimes[i-1]); got != 5*time.Second {
			t.Errorf("gap %d = %v, want 5s", i, got)
		}
	}
}

func TestDoContextCancelledDuringWait(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Fixed(3, time.Minute).Do(ctx, fake, func(int) error {
			return errors.New("failing")
		})
	}()

	fake.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Do = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestDoSucceedsMidway(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Exponential(5, time.Second).Do(context.Background(), fake, func(int) error {
			calls++
			if calls == 3 {
				return nil
			}
			return errors.New("transient")
		})
	}()

	fake.BlockUntil(1)
	fake.Advance(time.Second)
	fake.BlockUntil(1)
	fake.Advance(2 * time.Second)

	if err := <-done; err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}
