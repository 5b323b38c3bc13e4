// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package view renders analysis state to a terminal: the progress bar, the
// summary, the list of findings and the annotated document.
package view

import (
	"fmt"
	"io"
	"os"
	"strings"

	"legallens/internal/analysis"
	"legallens/internal/formatters/text"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// Options configures a Renderer.
type Options struct {
	Color  bool // emit ANSI colours
	Inline bool // redraw the progress bar in place
	Width  int  // zero means DefaultWidth
}

// TerminalOptions detects colour and width support for f.
func TerminalOptions(f *os.File, noColor bool) Options {
	isTTY := term.IsTerminal(int(f.Fd()))
	opts := Options{Color: isTTY && !noColor, Inline: isTTY, Width: DefaultWidth}
	if isTTY {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			opts.Width = w
		}
	}
	return opts
}

// Renderer writes views to out.
type Renderer struct {
	out  io.Writer
	opts Options
}

// NewRenderer returns a Renderer for out.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	return &Renderer{out: out, opts: opts}
}

// Writer returns the underlying writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.opts.Color {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func (r *Renderer) severity(s analysis.Severity, label string) string {
	return r.paint(text.SeverityColor(s), label)
}

func (r *Renderer) heading(s string) string {
	return r.paint(color.New(color.Bold), s)
}

func (r *Renderer) muted(s string) string {
	return r.paint(color.New(color.Faint), s)
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// wrap breaks s into lines of at most width runes, on spaces where possible.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		line  strings.Builder
		n     int
	)
	for _, w := range words {
		wl := len([]rune(w))
		if n > 0 && n+1+wl > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(w)
		n += wl
	}
	return append(lines, line.String())
}
