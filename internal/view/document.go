// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"strconv"

	"legallens/internal/analysis"
	"legallens/internal/annotate"
	"legallens/internal/highlight"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Document is a result on display: its annotated text plus the selection it
// drives.
type Document struct {
	result    *analysis.Result
	annotated *annotate.Document
	selection *highlight.Controller
}

// NewDocument annotates result and binds it to selection, so activating a
// finding can find its segment. When no finding can be highlighted the
// reason is logged at debug and the text is shown plain.
func NewDocument(result *analysis.Result, selection *highlight.Controller, logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := annotate.CompileErr(result.Risks)
	if err != nil {
		logger.Debug("Highlighting disabled for document",
			zap.String("file_name", result.FileName),
			zap.Int("risks", len(result.Risks)),
			zap.Error(err))
	}
	d := &Document{
		result:    result,
		annotated: annotate.Build(result.Text, m),
		selection: selection,
	}
	if selection != nil {
		selection.Bind(d.annotated)
	}
	return d
}

// Result returns the result on display.
func (d *Document) Result() *analysis.Result {
	return d.result
}

// Annotated returns the resolved segments.
func (d *Document) Annotated() *annotate.Document {
	return d.annotated
}

// Click activates the finding highlighted at segmentIndex and reports
// whether it did. A click on a plain segment is a click on the background
// and clears the selection. Out of range indexes do nothing.
func (d *Document) Click(segmentIndex int) bool {
	if segmentIndex < 0 || segmentIndex >= len(d.annotated.Segments) || d.selection == nil {
		return false
	}
	seg := d.annotated.Segments[segmentIndex]
	if !seg.IsMatched() {
		d.selection.Clear()
		return false
	}
	d.selection.Activate(seg.FindingID)
	return true
}

// Select activates the finding with the given id, as if it were chosen from
// the risk list.
func (d *Document) Select(findingID int) bool {
	if _, ok := d.result.Finding(findingID); !ok || d.selection == nil {
		return false
	}
	d.selection.Activate(findingID)
	return true
}

// Document prints the annotated text. Matched segments are coloured by
// severity and the active finding's segments are emphasised. Without colour
// they are bracketed and tagged with the finding id.
func (r *Renderer) Document(d *Document) {
	r.printf("%s  %s\n", r.heading("DOCUMENT"), r.muted(d.result.FileName))
	for _, seg := range d.annotated.Segments {
		r.printf("%s", r.segment(d, seg))
	}
	r.printf("\n")
}

func (r *Renderer) segment(d *Document, seg annotate.Segment) string {
	if !seg.IsMatched() {
		return seg.Text
	}
	active := d.selection != nil && d.selection.IsActive(seg.FindingID)

	if !r.opts.Color {
		tag := "#" + strconv.Itoa(seg.FindingID)
		if active {
			return "[>" + seg.Text + "<]" + tag
		}
		return "[" + seg.Text + "]" + tag
	}

	risk, _ := d.result.Finding(seg.FindingID)
	c := highlightColor(risk.Severity)
	c.Add(color.Underline)
	if active {
		c.Add(color.Bold, color.ReverseVideo)
	}
	return r.paint(c, seg.Text)
}

func highlightColor(s analysis.Severity) *color.Color {
	switch s {
	case analysis.SeverityHigh:
		return color.New(color.FgRed)
	case analysis.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgBlue)
	}
}
