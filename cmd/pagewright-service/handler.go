// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pagewright/pagewright/lib/task"
	"github.com/pagewright/pagewright/lib/worker"
)

// maxRequestBodySize bounds inbound task request payloads. Attachments
// arrive inline as base64 data URLs, so requests can be megabytes;
// 32 MB gives comfortable headroom.
const maxRequestBodySize = 32 * 1024 * 1024

// taskHandler serves the inbound API: task submission and health.
// Validation and authentication happen synchronously; the pipeline
// itself runs on a detached worker, so the HTTP response never waits
// on provider calls.
type taskHandler struct {
	secret []byte
	logger *slog.Logger

	// submit enqueues a validated request for background execution
	// and returns its execution ID.
	submit func(task.Request) (string, error)
}

type taskHandlerConfig struct {
	Secret string
	Logger *slog.Logger
	Submit func(task.Request) (string, error)
}

func newTaskHandler(config taskHandlerConfig) *taskHandler {
	if config.Secret == "" {
		panic("taskHandler: secret is required")
	}
	if config.Submit == nil {
		panic("taskHandler: submit callback is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &taskHandler{
		secret: []byte(config.Secret),
		logger: logger,
		submit: config.Submit,
	}
}

// routes returns the handler's HTTP mux.
func (handler *taskHandler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api-endpoint", handler.handleSubmit)
	mux.HandleFunc("GET /health", handler.handleHealth)
	return mux
}

// handleSubmit accepts a task request, verifies the shared secret,
// enqueues the pipeline, and acknowledges immediately.
func (handler *taskHandler) handleSubmit(writer http.ResponseWriter, request *http.Request) {
	body, err := io.ReadAll(io.LimitReader(request.Body, maxRequestBodySize))
	if err != nil {
		handler.logger.Error("failed to read request body", "error", err)
		writeJSON(writer, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "failed to read request body",
		})
		return
	}

	var taskRequest task.Request
	if err := json.Unmarshal(body, &taskRequest); err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid JSON payload",
		})
		return
	}

	if err := taskRequest.Validate(); err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	// Constant-time comparison; a timing oracle on the shared secret
	// would defeat it.
	if subtle.ConstantTimeCompare([]byte(taskRequest.Secret), handler.secret) != 1 {
		handler.logger.Warn("secret mismatch",
			"email", taskRequest.Email,
			"remote_addr", request.RemoteAddr,
		)
		writeJSON(writer, http.StatusUnauthorized, map[string]string{
			"status":  "error",
			"message": "unauthorized: secret mismatch",
		})
		return
	}

	executionID, err := handler.submit(taskRequest)
	if err != nil {
		handler.logger.Error("failed to enqueue task",
			"task", taskRequest.Task,
			"round", taskRequest.Round,
			"error", err,
		)
		status := http.StatusInternalServerError
		if errors.Is(err, worker.ErrQueueFull) || errors.Is(err, worker.ErrShutdown) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(writer, status, map[string]string{
			"status":  "error",
			"message": "unable to accept task",
		})
		return
	}

	handler.logger.Info("task accepted",
		"task", taskRequest.Task,
		"round", taskRequest.Round,
		"execution_id", executionID,
	)
	writeJSON(writer, http.StatusOK, map[string]string{
		"status":       "accepted",
		"message":      "task accepted and processing in background",
		"execution_id": executionID,
	})
}

// handleHealth reports liveness unconditionally.
func (handler *taskHandler) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(body)
}
