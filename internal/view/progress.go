// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"
	"strings"
	"sync"

	"legallens/internal/pipeline"

	"github.com/fatih/color"
)

// Phase labels shown beside the progress bar.
const (
	UploadingLabel = "Uploading Document..."
	AnalyzingLabel = "Analyzing Clauses..."
)

// PhaseLabel returns the heading for a busy status, or "".
func PhaseLabel(s pipeline.Status) string {
	switch s {
	case pipeline.Uploading:
		return UploadingLabel
	case pipeline.Analyzing:
		return AnalyzingLabel
	}
	return ""
}

func phaseDetail(s pipeline.Status) string {
	if s == pipeline.Uploading {
		return "Sending to secure server"
	}
	return "Searching for hidden risks"
}

// Progress renders pipeline snapshots as a progress bar. Its Update method
// is meant to be passed to pipeline.Controller.Subscribe.
type Progress struct {
	r *Renderer

	mu     sync.Mutex
	last   pipeline.State
	drawn  bool
	closed bool
}

// NewProgress returns a progress view writing through r.
func (r *Renderer) NewProgress() *Progress {
	return &Progress{r: r}
}

// Update draws s. Inline renderers redraw one line; others print a line per
// phase change and when the bar reaches 100%.
func (p *Progress) Update(s pipeline.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !s.Status.Busy() {
		return
	}

	if !p.r.opts.Inline {
		if p.drawn && s.Status == p.last.Status && !(s.Progress == 100 && p.last.Progress < 100) {
			p.last = s
			return
		}
		p.r.printf("%s\n", p.line(s))
	} else {
		p.r.printf("\r\x1b[2K%s", p.line(s))
	}
	p.last, p.drawn = s, true
}

// Done terminates the progress line. Further updates are ignored.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn && p.r.opts.Inline && !p.closed {
		p.r.printf("\n")
	}
	p.closed = true
}

func (p *Progress) line(s pipeline.State) string {
	label := PhaseLabel(s.Status)
	detail := phaseDetail(s.Status)
	pct := fmt.Sprintf("%3d%%", s.Progress)

	// label + detail + " Progress " + pct take the rest of the line.
	barWidth := p.r.opts.Width - len(label) - len(detail) - 20
	barWidth = max(10, min(barWidth, 40))
	filled := barWidth * s.Progress / 100

	bar := p.r.paint(color.New(color.FgHiBlue), strings.Repeat("█", filled)) +
		p.r.muted(strings.Repeat("░", barWidth-filled))
	return p.r.heading(label) + " " + p.r.muted(detail) + " " + bar + " Progress " + pct
}
