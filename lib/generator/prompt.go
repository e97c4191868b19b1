// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"fmt"
	"strings"

	"github.com/pagewright/pagewright/lib/attachment"
	"github.com/pagewright/pagewright/lib/llm"
	"github.com/pagewright/pagewright/lib/task"
)

const systemPrompt = `You are an expert full-stack developer specializing in minimal, single-page web applications.

CONSTRAINTS:
1. Output ONLY the complete contents of a single index.html file. No commentary, no markdown fences.
2. The application must be self-contained: plain HTML/CSS/JavaScript, or CDN-hosted libraries when the brief requires them.
3. If attachments are described, embed their data directly in the JavaScript where needed.
4. The code must be minimal, clean, and must not embed secrets.`

// buildPrompt assembles the user message for one round. Text
// attachment previews are rendered inline; image attachments are
// passed as separate multimodal parts; other binary attachments are
// summarized by size.
func buildPrompt(request task.Request) llm.Message {
	verb := "Create"
	if request.IsRevision() {
		verb = "Update"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%s a single-page web application.\n\n", verb)
	fmt.Fprintf(&builder, "TASK BRIEF (Round %d):\n%s\n", request.Round, request.Brief)

	if len(request.Checks) > 0 {
		builder.WriteString("\nACCEPTANCE CHECKS:\n")
		for _, check := range request.Checks {
			fmt.Fprintf(&builder, "- %s\n", check)
		}
	}

	blocks := []llm.ContentBlock{}
	imageBlocks := []llm.ContentBlock{}

	if len(request.Attachments) > 0 {
		builder.WriteString("\nATTACHMENTS:\n")
		for _, att := range request.Attachments {
			content := attachment.Decode(att.URL)
			mediaType := attachment.MediaType(att.URL)

			if content.Binary && strings.HasPrefix(mediaType, "image/") {
				fmt.Fprintf(&builder, "File Name: %s\nContent Type: %s (provided as image input)\n\n", att.Name, mediaType)
				imageBlocks = append(imageBlocks, llm.InlineDataBlock(mediaType, content.Data))
				continue
			}

			kind := "TEXT"
			if content.Binary {
				kind = "BINARY"
			}
			fmt.Fprintf(&builder, "File Name: %s\nContent Type: %s\nContent Preview:\n---\n%s\n---\n\n",
				att.Name, kind, content.Preview())
		}
	}

	builder.WriteString("\nGenerate the complete index.html now.")

	blocks = append(blocks, llm.TextBlock(builder.String()))
	blocks = append(blocks, imageBlocks...)
	return llm.UserMessage(blocks...)
}
