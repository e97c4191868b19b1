// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package worker runs detached units of work. The ingress handler
// enqueues a job and returns immediately; a pool goroutine executes
// the job to completion. Job panics are recovered and logged so a
// misbehaving pipeline execution never terminates the process.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned by Submit when the job queue is at
// capacity. The caller decides whether that is a retryable condition.
var ErrQueueFull = errors.New("worker: queue full")

// ErrShutdown is returned by Submit after Shutdown has begun.
var ErrShutdown = errors.New("worker: pool is shut down")

// Job is one detached unit of work. The context is the pool's base
// context; it is not cancelled per-job, since a detached execution
// cannot be cancelled by the request that triggered it.
type Job func(ctx context.Context)

// Config holds configuration for creating a Pool.
type Config struct {
	// Workers is the number of concurrent executions. Defaults to 4.
	Workers int

	// QueueSize is the pending-job capacity. Defaults to 64.
	QueueSize int

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Pool executes submitted jobs on a fixed set of worker goroutines.
type Pool struct {
	logger *slog.Logger
	queue  chan submission

	mu       sync.Mutex
	shutdown bool

	workers sync.WaitGroup

	baseCtx context.Context
	cancel  context.CancelFunc
}

type submission struct {
	id   string
	name string
	job  Job
}

// New creates a Pool and starts its workers.
func New(config Config) *Pool {
	workers := config.Workers
	if workers <= 0 {
		workers = 4
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := &Pool{
		logger:  logger,
		queue:   make(chan submission, queueSize),
		baseCtx: ctx,
		cancel:  cancel,
	}

	pool.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go pool.run()
	}
	return pool
}

// Submit enqueues a job for background execution and returns its
// execution ID. Never blocks: a full queue returns ErrQueueFull.
//
// The mutex is held across the send so Shutdown cannot close the
// queue between the shutdown check and the enqueue; the send is
// non-blocking, so the critical section never waits.
func (pool *Pool) Submit(name string, job Job) (string, error) {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	if pool.shutdown {
		return "", ErrShutdown
	}

	id := uuid.NewString()
	select {
	case pool.queue <- submission{id: id, name: name, job: job}:
		pool.logger.Info("job queued", "execution_id", id, "job", name)
		return id, nil
	default:
		return "", ErrQueueFull
	}
}

// Shutdown stops accepting new jobs, waits for queued and running
// jobs to finish, then releases the workers. Returns the context's
// error if it expires first.
func (pool *Pool) Shutdown(ctx context.Context) error {
	pool.mu.Lock()
	if pool.shutdown {
		pool.mu.Unlock()
		return nil
	}
	pool.shutdown = true
	// Closed under the same mutex that guards Submit's send, so no
	// enqueue can race the close.
	close(pool.queue)
	pool.mu.Unlock()

	done := make(chan struct{})
	go func() {
		pool.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		pool.cancel()
		return nil
	case <-ctx.Done():
		pool.cancel()
		return ctx.Err()
	}
}

// run is one worker goroutine. It drains the queue until Shutdown
// closes it.
func (pool *Pool) run() {
	defer pool.workers.Done()
	for item := range pool.queue {
		pool.execute(item)
	}
}

// execute runs one job with panic recovery. A panic is terminal only
// for this job.
func (pool *Pool) execute(item submission) {
	start := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			pool.logger.Error("job panicked",
				"execution_id", item.id,
				"job", item.name,
				"panic", recovered,
				"stack", string(debug.Stack()),
			)
		}
	}()

	pool.logger.Info("job started", "execution_id", item.id, "job", item.name)
	item.job(pool.baseCtx)
	pool.logger.Info("job finished",
		"execution_id", item.id,
		"job", item.name,
		"duration", time.Since(start),
	)
}
