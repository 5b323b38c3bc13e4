// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"strings"
)

// Severity is the risk level assigned to a finding
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// ParseSeverity maps loosely formatted severity labels ("high", "HIGH ", "Medium Risk")
// onto a Severity. Unknown labels report false.
func ParseSeverity(label string) (Severity, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.TrimSuffix(normalized, " risk")
	switch normalized {
	case "high":
		return SeverityHigh, true
	case "medium":
		return SeverityMedium, true
	case "low":
		return SeverityLow, true
	}
	return "", false
}

// RiskFinding is one flagged clause in a document. Findings are treated as
// immutable once they have been received from the analyzer.
type RiskFinding struct {
	ID          int      `json:"id" yaml:"id"`
	Severity    Severity `json:"type" yaml:"type" validate:"oneof=High Medium Low"`
	Title       string   `json:"title" yaml:"title" validate:"required"`
	Category    string   `json:"category" yaml:"category"`
	Explanation string   `json:"explanation" yaml:"explanation"`
	Snippet     string   `json:"snippet" yaml:"snippet"`
}

// HasSnippet reports whether the finding carries a non-blank snippet.
func (f RiskFinding) HasSnippet() bool {
	return strings.TrimSpace(f.Snippet) != ""
}

// Result is the outcome of analysing one document. A Result is replaced
// wholesale on every run and never edited in place.
type Result struct {
	FileName string        `json:"fileName" yaml:"fileName" validate:"required"`
	Text     string        `json:"text" yaml:"text" validate:"required"`
	Summary  []string      `json:"summary" yaml:"summary" validate:"required"`
	Risks    []RiskFinding `json:"risks" yaml:"risks" validate:"required,dive"`
}

// Finding returns the finding with the given id.
func (r *Result) Finding(id int) (RiskFinding, bool) {
	if r == nil {
		return RiskFinding{}, false
	}
	for _, risk := range r.Risks {
		if risk.ID == id {
			return risk, true
		}
	}
	return RiskFinding{}, false
}

// CountBySeverity tallies findings per severity level.
func (r *Result) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{
		SeverityHigh:   0,
		SeverityMedium: 0,
		SeverityLow:    0,
	}
	if r == nil {
		return counts
	}
	for _, risk := range r.Risks {
		counts[risk.Severity]++
	}
	return counts
}

// Clone returns a deep copy so callers can hand out results without sharing
// slices with the owner.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{
		FileName: r.FileName,
		Text:     r.Text,
		Summary:  append([]string(nil), r.Summary...),
		Risks:    append([]RiskFinding(nil), r.Risks...),
	}
	if out.Summary == nil {
		out.Summary = []string{}
	}
	if out.Risks == nil {
		out.Risks = []RiskFinding{}
	}
	return out
}

// Upload is a document selected for analysis.
type Upload struct {
	FileName string
	Content  []byte
}
