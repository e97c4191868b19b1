// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package attachment

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDecode_Text(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("name,value\na,1\n"))
	content := Decode("data:text/csv;base64," + payload)

	if content.Binary {
		t.Fatal("CSV content decoded as binary")
	}
	if content.Text != "name,value\na,1\n" {
		t.Errorf("Text = %q", content.Text)
	}
}

func TestDecode_Binary(t *testing.T) {
	// PNG magic bytes are not valid UTF-8.
	raw := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0xFF, 0xFE}
	payload := base64.StdEncoding.EncodeToString(raw)
	content := Decode("data:image/png;base64," + payload)

	if !content.Binary {
		t.Fatal("PNG content decoded as text")
	}
	if len(content.Data) != len(raw) {
		t.Errorf("Data length = %d, want %d", len(content.Data), len(raw))
	}
}

func TestDecode_SplitsOnLastComma(t *testing.T) {
	// A payload containing a comma in the declaration portion must not
	// confuse the split.
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))
	content := Decode("data:text/plain;charset=utf-8;foo=a,b;base64," + payload)

	if content.Text != "hello" {
		t.Errorf("Text = %q, want hello", content.Text)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []string{
		"",
		"no-comma-here",
		"data:text/plain;base64,!!!not-base64!!!",
	}
	for _, input := range tests {
		content := Decode(input)
		if !content.Empty() {
			t.Errorf("Decode(%q) = %+v, want empty", input, content)
		}
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"data:image/png;base64,abc", "image/png"},
		{"data:text/csv,abc", "text/csv"},
		{"data:image/png", ""},
		{"image/png;base64,abc", ""},
		{"", ""},
	}
	for _, test := range tests {
		if got := MediaType(test.input); got != test.want {
			t.Errorf("MediaType(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestPreview_TruncatesText(t *testing.T) {
	long := strings.Repeat("x", 500)
	content := Content{Text: long}

	preview := content.Preview()
	if len(preview) != previewLimit+3 {
		t.Errorf("preview length = %d, want %d", len(preview), previewLimit+3)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("truncated preview missing ellipsis: %q", preview[190:])
	}
}

func TestPreview_ShortTextUnchanged(t *testing.T) {
	content := Content{Text: "short"}
	if got := content.Preview(); got != "short" {
		t.Errorf("Preview = %q", got)
	}
}

func TestPreview_Binary(t *testing.T) {
	content := Content{Data: make([]byte, 1024), Binary: true}
	if got := content.Preview(); got != "(binary content: 1024 bytes)" {
		t.Errorf("Preview = %q", got)
	}
}

func TestPreview_NeverSplitsRune(t *testing.T) {
	// A three-byte character straddling the byte cap must be dropped
	// whole, not truncated into invalid UTF-8.
	text := strings.Repeat("a", previewLimit-1) + strings.Repeat("世", 3)
	content := Content{Text: text}

	preview := content.Preview()
	if !utf8.ValidString(preview) {
		t.Fatalf("preview is not valid UTF-8: %q", preview)
	}
	want := strings.Repeat("a", previewLimit-1) + "..."
	if preview != want {
		t.Errorf("preview = %q, want %q", preview, want)
	}
}
