// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"
	"strings"

	"legallens/internal/analysis"
)

// Summary prints "The Gist": one line per summary point.
func (r *Renderer) Summary(result *analysis.Result) {
	r.printf("%s\n", r.heading("The Gist"))
	for _, point := range result.Summary {
		lines := wrap(point, r.opts.Width-4)
		for i, line := range lines {
			prefix := "    "
			if i == 0 {
				prefix = "  ✓ "
			}
			r.printf("%s%s\n", prefix, line)
		}
	}
	r.printf("\n")
}

// IssuesFound is the counter shown above the risk list.
func IssuesFound(n int) string {
	return fmt.Sprintf("%d Issues Found", n)
}

// Highlights labels a finding highlighted more than once in the document.
func Highlights(n int) string {
	return fmt.Sprintf("(%d highlights)", n)
}

// Risks prints the finding list of d. The active finding, if any, is marked.
func (r *Renderer) Risks(d *Document) {
	result, selection := d.result, d.selection
	r.printf("%s  %s\n", r.heading("RISK ASSESSMENT"), r.muted(IssuesFound(len(result.Risks))))

	for _, risk := range result.Risks {
		marker := "  "
		title := risk.Title
		if selection != nil && selection.IsActive(risk.ID) {
			marker = "▶ "
			title = r.heading(title)
		}

		badge := r.severity(risk.Severity, fmt.Sprintf("[%s]", risk.Severity))
		if n := d.annotated.Occurrences(risk.ID); n > 1 {
			title += " " + r.muted(Highlights(n))
		}
		r.printf("%s#%d %s %s\n", marker, risk.ID, badge, title)
		if risk.Category != "" {
			r.printf("     %s\n", r.muted(strings.ToUpper(risk.Category)))
		}
		for _, line := range wrap(risk.Explanation, r.opts.Width-5) {
			r.printf("     %s\n", line)
		}
	}
	r.printf("\n")
}
