// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package attachment decodes inline data URLs into raw content for
// prompt construction. Decoding is best-effort: a malformed reference
// yields empty content rather than an error, so a bad attachment never
// aborts generation.
package attachment

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// previewLimit caps text previews so prompts stay within provider
// limits.
const previewLimit = 200

// Content is decoded attachment data. Text attachments carry their
// payload in Text; binary attachments (images, archives) carry it in
// Data with Text empty.
type Content struct {
	Text   string
	Data   []byte
	Binary bool
}

// Empty reports whether the attachment decoded to nothing.
func (content Content) Empty() bool {
	return !content.Binary && content.Text == "" || content.Binary && len(content.Data) == 0
}

// Decode parses a data URL of the form "<declaration>,<payload>",
// base64-decodes the payload after the last comma, and probes the
// bytes for valid UTF-8. Valid UTF-8 becomes text; anything else is
// binary. Any parse or decode failure returns empty text content.
func Decode(dataURL string) Content {
	separator := strings.LastIndex(dataURL, ",")
	if separator < 0 {
		return Content{}
	}

	payload, err := base64.StdEncoding.DecodeString(dataURL[separator+1:])
	if err != nil {
		return Content{}
	}

	if utf8.Valid(payload) {
		return Content{Text: string(payload)}
	}
	return Content{Data: payload, Binary: true}
}

// MediaType extracts the declared media type from a data URL
// ("data:image/png;base64,..." yields "image/png"). Returns an empty
// string if the URL carries no declaration.
func MediaType(dataURL string) string {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return ""
	}
	end := strings.IndexAny(rest, ";,")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// Preview renders a bounded human-readable summary of the content for
// inclusion in a prompt. Text is truncated to a fixed budget; binary
// content is summarized by size, never inlined.
func (content Content) Preview() string {
	if content.Binary {
		return fmt.Sprintf("(binary content: %d bytes)", len(content.Data))
	}
	if len(content.Text) > previewLimit {
		cut := previewLimit
		// The limit is in bytes; back up so the cap never splits a
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(content.Text[cut]) {
			cut--
		}
		return content.Text[:cut] + "..."
	}
	return content.Text
}
