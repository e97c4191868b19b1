// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultGeminiBaseURL is the public Gemini API endpoint.
const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// requestTimeout bounds each generateContent call when no HTTPClient
// is injected. Large non-streaming completions can take minutes, so
// the bound is generous; it exists to release the calling goroutine
// when the provider stalls indefinitely.
const requestTimeout = 5 * time.Minute

// Gemini implements [Provider] for the Gemini generateContent API.
// Authentication uses the x-goog-api-key header.
type Gemini struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// GeminiConfig holds configuration for creating a Gemini provider.
type GeminiConfig struct {
	// APIKey is the Gemini API key. Required.
	APIKey string

	// BaseURL overrides the API endpoint. Defaults to the public
	// Gemini API. Tests point this at a local server.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to a client with
	// a per-request timeout.
	HTTPClient *http.Client
}

// NewGemini creates a Gemini provider from the given configuration.
func NewGemini(config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("llm/gemini: API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Gemini{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     config.APIKey,
	}, nil
}

// Complete sends a non-streaming request and returns the full response.
func (provider *Gemini) Complete(ctx context.Context, request Request) (*Response, error) {
	wireRequest := provider.buildRequest(request)

	httpResponse, err := doProviderRequest(ctx, provider.httpClient,
		provider.endpoint(request.Model), wireRequest, "llm/gemini",
		map[string]string{"x-goog-api-key": provider.apiKey})
	if err != nil {
		return nil, err
	}

	response, err := decodeResponse[geminiResponse](httpResponse, "llm/gemini")
	if err != nil {
		return nil, err
	}
	if response.Model == "" {
		response.Model = request.Model
	}
	return response, nil
}

// endpoint returns the generateContent URL for the given model.
func (provider *Gemini) endpoint(model string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		provider.baseURL, url.PathEscape(model))
}

// buildRequest converts our types to Gemini wire format. Gemini names
// the assistant role "model" and carries the system instruction in a
// dedicated top-level field.
func (provider *Gemini) buildRequest(request Request) geminiRequest {
	wireRequest := geminiRequest{}

	if request.System != "" {
		wireRequest.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: request.System}},
		}
	}

	for _, message := range request.Messages {
		wireRequest.Contents = append(wireRequest.Contents, toGeminiContent(message))
	}

	if request.MaxTokens > 0 || request.Temperature != nil {
		wireRequest.GenerationConfig = &geminiGenerationConfig{
			Temperature: request.Temperature,
		}
		if request.MaxTokens > 0 {
			wireRequest.GenerationConfig.MaxOutputTokens = request.MaxTokens
		}
	}

	return wireRequest
}

func toGeminiContent(message Message) geminiContent {
	role := "user"
	if message.Role == RoleAssistant {
		role = "model"
	}

	content := geminiContent{Role: role}
	for _, block := range message.Content {
		switch block.Type {
		case "inline_data":
			content.Parts = append(content.Parts, geminiPart{
				InlineData: &geminiInlineData{
					MIMEType: block.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(block.Data),
				},
			})
		default:
			content.Parts = append(content.Parts, geminiPart{Text: block.Text})
		}
	}
	return content
}

// Gemini wire format types.

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int64    `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int64 `json:"promptTokenCount"`
		CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// toResponse converts Gemini wire format to the common Response. Only
// the first candidate is used; multi-candidate responses are not
// requested.
func (wireResp *geminiResponse) toResponse() *Response {
	response := &Response{
		Model: wireResp.ModelVersion,
		Usage: Usage{
			InputTokens:  wireResp.UsageMetadata.PromptTokenCount,
			OutputTokens: wireResp.UsageMetadata.CandidatesTokenCount,
		},
	}

	if len(wireResp.Candidates) == 0 {
		response.StopReason = StopOther
		return response
	}

	candidate := wireResp.Candidates[0]
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			response.Content = append(response.Content, TextBlock(part.Text))
		}
	}

	switch candidate.FinishReason {
	case "STOP":
		response.StopReason = StopEndTurn
	case "MAX_TOKENS":
		response.StopReason = StopMaxTokens
	default:
		response.StopReason = StopOther
	}

	return response
}
