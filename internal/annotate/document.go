// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"strings"

	"legallens/internal/analysis"
)

// Document is an annotated document: the resolved segments plus a lookup
// from finding id to the first segment highlighted for it.
type Document struct {
	Segments []Segment

	locations map[int]int
	counts    map[int]int
}

// Annotate runs the compile, partition and resolve chain over text.
func Annotate(text string, findings []analysis.RiskFinding) *Document {
	return Build(text, Compile(findings))
}

// Build partitions and resolves text with an already compiled matcher.
func Build(text string, m *Matcher) *Document {
	segments := Resolve(Partition(text, m), m)

	doc := &Document{
		Segments:  segments,
		locations: make(map[int]int),
		counts:    make(map[int]int),
	}
	for i, seg := range segments {
		if !seg.IsMatched() {
			continue
		}
		if _, seen := doc.locations[seg.FindingID]; !seen {
			doc.locations[seg.FindingID] = i
		}
		doc.counts[seg.FindingID]++
	}
	return doc
}

// SegmentFor returns the index of the first segment highlighted for the
// finding, if any.
func (d *Document) SegmentFor(findingID int) (int, bool) {
	if d == nil {
		return 0, false
	}
	idx, ok := d.locations[findingID]
	return idx, ok
}

// Occurrences returns how many segments are highlighted for the finding.
func (d *Document) Occurrences(findingID int) int {
	if d == nil {
		return 0
	}
	return d.counts[findingID]
}

// Text reassembles the document from its segments.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	for _, seg := range d.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}
