// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pagewright/pagewright/lib/task"
	"github.com/pagewright/pagewright/lib/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHandler creates a handler whose submissions are captured in
// the returned slice.
func newTestHandler(t *testing.T) (*taskHandler, *[]task.Request) {
	t.Helper()
	var submitted []task.Request
	handler := newTaskHandler(taskHandlerConfig{
		Secret: "s3cret",
		Logger: discardLogger(),
		Submit: func(request task.Request) (string, error) {
			submitted = append(submitted, request)
			return "exec-1", nil
		},
	})
	return handler, &submitted
}

const validBody = `{
	"secret": "s3cret",
	"email": "dev@example.com",
	"task": "Demo App",
	"round": 1,
	"nonce": "n-1",
	"brief": "counter app",
	"checks": ["has a button"],
	"evaluation_url": "https://eval.example/cb"
}`

func postTask(handler *taskHandler, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/api-endpoint", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.routes().ServeHTTP(recorder, request)
	return recorder
}

func TestHandleSubmit_Accepted(t *testing.T) {
	handler, submitted := newTestHandler(t)

	recorder := postTask(handler, validBody)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body)
	}

	var response map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response["status"] != "accepted" {
		t.Errorf("status = %q, want accepted", response["status"])
	}
	if response["execution_id"] != "exec-1" {
		t.Errorf("execution_id = %q", response["execution_id"])
	}

	if len(*submitted) != 1 {
		t.Fatalf("submissions = %d, want 1", len(*submitted))
	}
	got := (*submitted)[0]
	if got.Task != "Demo App" || got.Round != 1 || got.Brief != "counter app" {
		t.Errorf("submitted request = %+v", got)
	}
}

func TestHandleSubmit_InvalidJSON(t *testing.T) {
	handler, submitted := newTestHandler(t)

	recorder := postTask(handler, "{not json")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
	if len(*submitted) != 0 {
		t.Error("malformed request must not start background work")
	}
}

func TestHandleSubmit_MissingFields(t *testing.T) {
	handler, submitted := newTestHandler(t)

	recorder := postTask(handler, `{"secret": "s3cret", "round": 1}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "evaluation_url") {
		t.Errorf("response does not name missing fields: %s", recorder.Body)
	}
	if len(*submitted) != 0 {
		t.Error("invalid request must not start background work")
	}
}

func TestHandleSubmit_SecretMismatch(t *testing.T) {
	handler, submitted := newTestHandler(t)

	body := strings.Replace(validBody, `"s3cret"`, `"wrong"`, 1)
	recorder := postTask(handler, body)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
	if len(*submitted) != 0 {
		t.Error("unauthorized request must not start background work")
	}
}

func TestHandleSubmit_QueueFull(t *testing.T) {
	handler := newTaskHandler(taskHandlerConfig{
		Secret: "s3cret",
		Logger: discardLogger(),
		Submit: func(task.Request) (string, error) {
			return "", worker.ErrQueueFull
		},
	})

	recorder := postTask(handler, validBody)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", recorder.Code)
	}
}

func TestHandleSubmit_MethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/api-endpoint", nil)
	recorder := httptest.NewRecorder()
	handler.routes().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", recorder.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	handler, _ := newTestHandler(t)

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	handler.routes().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var response map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", response["status"])
	}
}
