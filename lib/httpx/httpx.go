// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides bounded HTTP body helpers. All JSON API
// response reads (GitHub, Gemini, the evaluation callback) go through
// these so a misbehaving server cannot allocate unbounded memory.
// Not for streaming or large binary downloads, which should be read
// incrementally with io.Copy.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxResponseSize bounds JSON API response body reads: 32 MB. A
// generated document plus its base64 framing stays well under this;
// the limit exists only to stop a pathological response from
// exhausting memory.
const MaxResponseSize int64 = 32 << 20

// ReadBody reads an API response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadBody(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeBody reads an API response body (up to MaxResponseSize bytes)
// and JSON-decodes it into v. Replaces the io.ReadAll + json.Unmarshal
// pattern.
func DecodeBody(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an HTTP error response body and returns it as a
// string for diagnostic messages. Read errors are ignored — a partial
// or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}
