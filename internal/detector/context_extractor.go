// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"unicode/utf8"
)

// ContextInfo is the text around a keyword hit.
type ContextInfo struct {
	BeforeText string
	AfterText  string
	// Snippet is the whole window on one line, trimmed.
	Snippet string
}

// ContextExtractor cuts a window of characters around a match.
type ContextExtractor struct {
	// Characters kept before the match
	BeforeChars int
	// Characters kept after the match
	AfterChars int
}

// NewContextExtractor creates a new context extractor with default settings
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{
		BeforeChars: 40,
		AfterChars:  60,
	}
}

// WithBeforeChars sets the number of characters kept before a match.
func (ce *ContextExtractor) WithBeforeChars(chars int) *ContextExtractor {
	ce.BeforeChars = chars
	return ce
}

// WithAfterChars sets the number of characters kept after a match.
func (ce *ContextExtractor) WithAfterChars(chars int) *ContextExtractor {
	ce.AfterChars = chars
	return ce
}

// Extract returns the window around text[start:end], counted in runes and
// clamped to the text.
func (ce *ContextExtractor) Extract(text string, start, end int) ContextInfo {
	from := start
	for n := 0; n < ce.BeforeChars && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for n := 0; n < ce.AfterChars && to < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	return ContextInfo{
		BeforeText: text[from:start],
		AfterText:  text[end:to],
		Snippet:    strings.TrimSpace(strings.ReplaceAll(text[from:to], "\n", " ")),
	}
}
