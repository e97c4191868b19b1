// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import "strings"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Request is a provider-independent completion request.
type Request struct {
	// Model is the provider model identifier
	// (e.g., "gemini-2.5-flash").
	Model string

	// System is the system instruction, if any.
	System string

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int64

	// Temperature controls sampling randomness. Nil means provider
	// default.
	Temperature *float64

	// Messages is the conversation history, oldest first.
	Messages []Message
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// ContentBlock is a piece of message content: text, or inline binary
// data such as an image or PDF attachment.
type ContentBlock struct {
	// Type is "text" or "inline_data".
	Type string

	// Text holds the content for text blocks.
	Text string

	// MIMEType and Data hold the content for inline_data blocks.
	MIMEType string
	Data     []byte
}

// TextBlock creates a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// InlineDataBlock creates an inline binary data block.
func InlineDataBlock(mimeType string, data []byte) ContentBlock {
	return ContentBlock{Type: "inline_data", MIMEType: mimeType, Data: data}
}

// UserMessage creates a user message from content blocks.
func UserMessage(blocks ...ContentBlock) Message {
	return Message{Role: RoleUser, Content: blocks}
}

// StopReason indicates why the model stopped generating.
type StopReason string

const (
	// StopEndTurn means the model finished naturally.
	StopEndTurn StopReason = "end_turn"

	// StopMaxTokens means the response hit the MaxTokens cap and is
	// likely truncated.
	StopMaxTokens StopReason = "max_tokens"

	// StopOther covers provider-specific reasons (safety filters,
	// recitation blocks) that have no common equivalent.
	StopOther StopReason = "other"
)

// Usage reports token consumption for a completion.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is a provider-independent completion response.
type Response struct {
	Model      string
	Content    []ContentBlock
	StopReason StopReason
	Usage      Usage
}

// Text returns the concatenated text of all text content blocks.
func (response *Response) Text() string {
	var builder strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}
