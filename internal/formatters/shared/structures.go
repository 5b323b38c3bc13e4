// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"legallens/internal/analysis"
	"legallens/internal/formatters"
)

// Report is the structured export shared by the JSON and YAML formatters.
type Report struct {
	FileName    string                 `json:"fileName" yaml:"fileName"`
	GeneratedAt string                 `json:"generatedAt" yaml:"generatedAt"`
	Counts      Counts                 `json:"counts" yaml:"counts"`
	Summary     []string               `json:"summary" yaml:"summary"`
	Risks       []analysis.RiskFinding `json:"risks" yaml:"risks"`
	Text        string                 `json:"text,omitempty" yaml:"text,omitempty"`
}

// Counts tallies exported findings by severity.
type Counts struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
	Total  int `json:"total" yaml:"total"`
}

// NewReport converts a result into the export structure, applying the
// severity filter.
func NewReport(result *analysis.Result, options formatters.FormatterOptions) Report {
	risks := formatters.FilterRisks(result.Risks, options)
	filtered := &analysis.Result{Risks: risks}
	byLevel := filtered.CountBySeverity()

	report := Report{
		FileName:    result.FileName,
		GeneratedAt: options.ReportDate().UTC().Format(time.RFC3339),
		Counts: Counts{
			High:   byLevel[analysis.SeverityHigh],
			Medium: byLevel[analysis.SeverityMedium],
			Low:    byLevel[analysis.SeverityLow],
			Total:  len(risks),
		},
		Summary: result.Summary,
		Risks:   risks,
	}
	if report.Summary == nil {
		report.Summary = []string{}
	}
	if report.Risks == nil {
		report.Risks = []analysis.RiskFinding{}
	}
	if options.IncludeText {
		report.Text = result.Text
	}
	return report
}
