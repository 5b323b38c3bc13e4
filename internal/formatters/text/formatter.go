// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"legallens/internal/analysis"
	"legallens/internal/formatters"

	"github.com/fatih/color"
)

// DateLayout matches the short US date printed on reports.
const DateLayout = "1/2/2006"

// Formatter renders the plain-text contract report.
type Formatter struct{}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable contract analysis report"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *analysis.Result, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder

	b.WriteString("LEGAL LENS - CONTRACT ANALYSIS REPORT\n")
	b.WriteString("=====================================\n")
	fmt.Fprintf(&b, "File Name: %s\n", result.FileName)
	fmt.Fprintf(&b, "Date: %s\n", options.ReportDate().Format(DateLayout))
	b.WriteString("\n")

	b.WriteString("SUMMARY POINTS:\n")
	b.WriteString("---------------\n")
	points := make([]string, len(result.Summary))
	for i, point := range result.Summary {
		points[i] = "[x] " + point
	}
	b.WriteString(strings.Join(points, "\n"))
	b.WriteString("\n\n")

	b.WriteString("RISK ASSESSMENT:\n")
	b.WriteString("----------------\n")
	for _, risk := range formatters.FilterRisks(result.Risks, options) {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s\n", f.tag(risk.Severity, options), risk.Title)
		fmt.Fprintf(&b, "Category: %s\n", risk.Category)
		fmt.Fprintf(&b, "Explanation: %s\n", risk.Explanation)
		fmt.Fprintf(&b, "Snippet: \"%s\"\n", risk.Snippet)
	}

	return strings.TrimSpace(b.String()), nil
}

func (f *Formatter) tag(severity analysis.Severity, options formatters.FormatterOptions) string {
	label := "[" + strings.ToUpper(string(severity)) + " RISK]"
	if !options.Color || options.NoColor {
		return label
	}
	c := SeverityColor(severity)
	c.EnableColor()
	return c.Sprint(label)
}

// SeverityColor returns the colour used for a severity in console output.
func SeverityColor(severity analysis.Severity) *color.Color {
	switch severity {
	case analysis.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case analysis.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgBlue)
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
