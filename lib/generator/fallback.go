// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pagewright/pagewright/lib/task"
)

// markdownInstance is initialized once and reused. The configuration
// never changes and the goldmark Markdown is safe to share.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownInstance
}

// fallbackDocument builds the deterministic placeholder deployed when
// the provider fails. The brief and every checklist item appear as
// readable text so the deployment still communicates what was asked
// for.
func fallbackDocument(request task.Request) Document {
	body := renderMarkdownHTML(fallbackMarkdown(request))

	var builder strings.Builder
	builder.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	builder.WriteString("<meta charset=\"utf-8\">\n")
	builder.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&builder, "<title>%s</title>\n", html.EscapeString(request.Task))
	builder.WriteString("<style>body{font-family:sans-serif;max-width:40rem;margin:2rem auto;padding:0 1rem;line-height:1.5}</style>\n")
	builder.WriteString("</head>\n<body>\n")
	builder.WriteString(body)
	builder.WriteString("</body>\n</html>\n")

	return Document{
		HTML:   builder.String(),
		Readme: renderReadme(request),
	}
}

// fallbackMarkdown is the markdown source for the fallback page body.
func fallbackMarkdown(request task.Request) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n", request.Task)
	builder.WriteString("Automatic generation was unavailable for this round. ")
	builder.WriteString("The requested application is described below.\n\n")
	fmt.Fprintf(&builder, "## Brief\n\n%s\n", request.Brief)
	if len(request.Checks) > 0 {
		builder.WriteString("\n## Acceptance Checks\n\n")
		for _, check := range request.Checks {
			fmt.Fprintf(&builder, "- %s\n", check)
		}
	}
	return builder.String()
}

// renderReadme produces the companion README.md for a round.
func renderReadme(request task.Request) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n", request.Task)
	fmt.Fprintf(&builder, "## Summary\n\n%s\n\n", request.Brief)
	builder.WriteString("## Setup\n\nNone required. Open `index.html` in a browser, or visit the GitHub Pages URL.\n\n")
	builder.WriteString("## Usage\n\nThe application is a self-contained single page.\n")
	if len(request.Checks) > 0 {
		builder.WriteString("\n## Acceptance Checks\n\n")
		for _, check := range request.Checks {
			fmt.Fprintf(&builder, "- %s\n", check)
		}
	}
	fmt.Fprintf(&builder, "\n---\nGenerated for round %d.\n", request.Round)
	return builder.String()
}

// renderMarkdownHTML converts markdown to an HTML fragment. A
// conversion failure falls back to the escaped source in a <pre>
// block; the page must render something in all cases.
func renderMarkdownHTML(source string) string {
	var buffer bytes.Buffer
	if err := getMarkdown().Convert([]byte(source), &buffer); err != nil {
		return "<pre>" + html.EscapeString(source) + "</pre>\n"
	}
	return buffer.String()
}
