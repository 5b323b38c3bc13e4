// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"legallens/internal/annotate"

	"github.com/fatih/color"
)

// DefaultRevealContext is how many runes of context surround a revealed
// segment.
const DefaultRevealContext = 60

// TerminalRevealer prints the neighbourhood of a highlighted segment, which
// is the terminal's version of scrolling it into the middle of the viewport.
type TerminalRevealer struct {
	r       *Renderer
	context int

	mu  sync.Mutex
	doc *annotate.Document
}

// NewTerminalRevealer returns a revealer printing through r. A context of
// zero or less uses DefaultRevealContext.
func NewTerminalRevealer(r *Renderer, context int) *TerminalRevealer {
	if context <= 0 {
		context = DefaultRevealContext
	}
	return &TerminalRevealer{r: r, context: context}
}

// Attach sets the document whose segments are revealed.
func (t *TerminalRevealer) Attach(doc *Document) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if doc == nil {
		t.doc = nil
		return
	}
	t.doc = doc.Annotated()
}

// EnsureVisible implements highlight.Revealer.
func (t *TerminalRevealer) EnsureVisible(findingID, segmentIndex int) {
	t.mu.Lock()
	doc := t.doc
	t.mu.Unlock()
	if doc == nil || segmentIndex < 0 || segmentIndex >= len(doc.Segments) {
		return
	}

	before, match, after := Window(doc, segmentIndex, t.context)
	t.r.printf("%s\n", t.r.heading("── Finding #"+strconv.Itoa(findingID)+" ──"))
	t.r.printf("…%s%s%s…\n\n", before, t.r.paint(color.New(color.Bold, color.Underline), "»"+match+"«"), after)
}

// Window returns up to context runes on each side of the segment, with
// whitespace runs flattened to single spaces.
func Window(doc *annotate.Document, segmentIndex, context int) (before, match, after string) {
	var pre, post strings.Builder
	for _, seg := range doc.Segments[:segmentIndex] {
		pre.WriteString(seg.Text)
	}
	for _, seg := range doc.Segments[segmentIndex+1:] {
		post.WriteString(seg.Text)
	}

	preRunes := []rune(flatten(pre.String()))
	if len(preRunes) > context {
		preRunes = preRunes[len(preRunes)-context:]
	}
	postRunes := []rune(flatten(post.String()))
	if len(postRunes) > context {
		postRunes = postRunes[:context]
	}
	return string(preRunes), flatten(doc.Segments[segmentIndex].Text), string(postRunes)
}

func flatten(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}
