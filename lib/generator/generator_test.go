// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/pagewright/pagewright/lib/llm"
	"github.com/pagewright/pagewright/lib/task"
)

// stubProvider implements llm.Provider with a canned response.
type stubProvider struct {
	response *llm.Response
	err      error
	requests []llm.Request
}

func (stub *stubProvider) Complete(ctx context.Context, request llm.Request) (*llm.Response, error) {
	stub.requests = append(stub.requests, request)
	if stub.err != nil {
		return nil, stub.err
	}
	return stub.response, nil
}

func textResponse(text string) *llm.Response {
	return &llm.Response{
		Content:    []llm.ContentBlock{llm.TextBlock(text)},
		StopReason: llm.StopEndTurn,
	}
}

func testRequest() task.Request {
	return task.Request{
		Task:          "Demo App",
		Round:         1,
		Brief:         "counter app",
		Checks:        []string{"has a button", "shows the count"},
		EvaluationURL: "https://eval.example/cb",
	}
}

func TestGenerate_NormalizesResponse(t *testing.T) {
	stub := &stubProvider{response: textResponse("```html\n<html><body>app</body></html>\n```")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	document := generator.Generate(context.Background(), testRequest())

	if !strings.HasPrefix(document.HTML, "<!DOCTYPE html>") {
		t.Errorf("HTML missing doctype: %q", document.HTML[:40])
	}
	if strings.Contains(document.HTML, "```") {
		t.Errorf("HTML retains code fence: %q", document.HTML)
	}
	if !strings.Contains(document.HTML, "<body>app</body>") {
		t.Errorf("HTML body lost: %q", document.HTML)
	}
	if !strings.Contains(document.Readme, "counter app") {
		t.Errorf("Readme missing brief: %q", document.Readme)
	}
}

func TestGenerate_DoctypePreserved(t *testing.T) {
	stub := &stubProvider{response: textResponse("<!doctype html>\n<html></html>")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	document := generator.Generate(context.Background(), testRequest())
	if strings.Count(strings.ToLower(document.HTML), "<!doctype") != 1 {
		t.Errorf("doctype duplicated: %q", document.HTML[:60])
	}
}

func TestGenerate_PromptEmbedsBriefAndChecks(t *testing.T) {
	stub := &stubProvider{response: textResponse("<html></html>")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	generator.Generate(context.Background(), testRequest())

	if len(stub.requests) != 1 {
		t.Fatalf("provider calls = %d, want exactly 1", len(stub.requests))
	}
	request := stub.requests[0]
	if request.System == "" {
		t.Error("system prompt missing")
	}

	prompt := request.Messages[0].Content[0].Text
	for _, want := range []string{"counter app", "has a button", "shows the count", "Round 1"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasPrefix(prompt, "Create") {
		t.Errorf("round 1 prompt must use create verb: %q", prompt[:30])
	}
}

func TestGenerate_RevisionUsesUpdateVerb(t *testing.T) {
	stub := &stubProvider{response: textResponse("<html></html>")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	request := testRequest()
	request.Round = 2
	generator.Generate(context.Background(), request)

	prompt := stub.requests[0].Messages[0].Content[0].Text
	if !strings.HasPrefix(prompt, "Update") {
		t.Errorf("round 2 prompt must use update verb: %q", prompt[:30])
	}
}

func TestGenerate_TextAttachmentPreviewInPrompt(t *testing.T) {
	stub := &stubProvider{response: textResponse("<html></html>")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	request := testRequest()
	request.Attachments = []task.Attachment{{
		Name: "data.csv",
		URL:  "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte("a,b\n1,2\n")),
	}}
	generator.Generate(context.Background(), request)

	prompt := stub.requests[0].Messages[0].Content[0].Text
	if !strings.Contains(prompt, "data.csv") {
		t.Error("prompt missing attachment name")
	}
	if !strings.Contains(prompt, "a,b\n1,2\n") {
		t.Error("prompt missing attachment preview")
	}
}

func TestGenerate_ImageAttachmentBecomesInlineData(t *testing.T) {
	stub := &stubProvider{response: textResponse("<html></html>")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0xFF, 0xFE}
	request := testRequest()
	request.Attachments = []task.Attachment{{
		Name: "logo.png",
		URL:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}}
	generator.Generate(context.Background(), request)

	blocks := stub.requests[0].Messages[0].Content
	if len(blocks) != 2 {
		t.Fatalf("content blocks = %d, want text + inline_data", len(blocks))
	}
	if blocks[1].Type != "inline_data" || blocks[1].MIMEType != "image/png" {
		t.Errorf("second block = %+v", blocks[1])
	}
	if len(blocks[1].Data) != len(png) {
		t.Errorf("inline data length = %d, want %d", len(blocks[1].Data), len(png))
	}
}

func TestGenerate_MalformedAttachmentDoesNotAbort(t *testing.T) {
	stub := &stubProvider{response: textResponse("<html></html>")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	request := testRequest()
	request.Attachments = []task.Attachment{{Name: "broken", URL: "not-a-data-url"}}

	document := generator.Generate(context.Background(), request)
	if document.HTML == "" {
		t.Fatal("generation aborted on malformed attachment")
	}
	if len(stub.requests) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(stub.requests))
	}
}

func TestGenerate_ProviderFailureFallsBack(t *testing.T) {
	stub := &stubProvider{err: errors.New("connection refused")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	document := generator.Generate(context.Background(), testRequest())

	if document.HTML == "" || document.Readme == "" {
		t.Fatal("fallback document is empty")
	}
	if !strings.HasPrefix(document.HTML, "<!DOCTYPE html>") {
		t.Errorf("fallback missing doctype: %q", document.HTML[:40])
	}
	for _, want := range []string{"counter app", "has a button", "shows the count"} {
		if !strings.Contains(document.HTML, want) {
			t.Errorf("fallback HTML missing %q", want)
		}
	}
}

func TestGenerate_EmptyResponseFallsBack(t *testing.T) {
	stub := &stubProvider{response: textResponse("")}
	generator := New(Config{Provider: stub, Model: "gemini-2.5-flash"})

	document := generator.Generate(context.Background(), testRequest())
	if !strings.Contains(document.HTML, "counter app") {
		t.Error("empty provider response did not fall back")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"```html\n<html></html>\n```", "<html></html>"},
		{"```\n<html></html>\n```", "<html></html>"},
		{"<html></html>", "<html></html>"},
		{"```", ""},
	}
	for _, test := range tests {
		if got := stripCodeFence(test.input); got != test.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
