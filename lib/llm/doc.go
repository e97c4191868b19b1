// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package llm provides a client for generative model APIs behind a
// common [Provider] interface. Requests and responses use the common
// types in this package; each provider translates to and from its
// vendor's wire format.
//
// The package currently implements the Gemini generateContent API.
// Multimodal input is supported through [ContentBlock] inline data,
// which carries binary attachments (images, PDFs) alongside text.
package llm
