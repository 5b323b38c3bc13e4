// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detector flags risky clauses by keyword when no model is available.
package detector

import (
	"fmt"
	"regexp"

	"legallens/internal/analysis"
)

// DefaultMaxFindings caps how many findings a keyword scan reports.
const DefaultMaxFindings = 6

// FallbackSummary is reported in place of a model-written summary.
var FallbackSummary = []string{
	"AI Analysis unavailable.",
	"Using keyword matching.",
	"Review document manually.",
	"Check API Key configuration.",
	"Standard legal terms found.",
}

// Rule flags every whole-word, case-insensitive occurrence of Keyword.
type Rule struct {
	Keyword     string
	Severity    analysis.Severity
	Category    string
	Explanation string
}

// DefaultRules are scanned in order; earlier rules get lower ids.
var DefaultRules = []Rule{
	{"arbitration", analysis.SeverityHigh, "Legal Recourse", "Forced arbitration clause detected."},
	{"indemnify", analysis.SeverityHigh, "Liability", "You may be liable for company costs."},
	{"sell", analysis.SeverityHigh, "Privacy", "Data selling clause detected."},
	{"damages", analysis.SeverityMedium, "Liability", "Limitation of liability detected."},
	{"termination", analysis.SeverityMedium, "Operational", "Check termination rights."},
}

// Match is one keyword hit.
type Match struct {
	Rule    Rule
	Start   int
	End     int
	Context ContextInfo
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// KeywordDetector scans text against a fixed rule list.
type KeywordDetector struct {
	rules       []compiledRule
	context     *ContextExtractor
	maxFindings int
}

// New compiles rules. A nil rule list means DefaultRules.
func New(rules []Rule) *KeywordDetector {
	if rules == nil {
		rules = DefaultRules
	}
	d := &KeywordDetector{
		context:     NewContextExtractor(),
		maxFindings: DefaultMaxFindings,
	}
	for _, r := range rules {
		d.rules = append(d.rules, compiledRule{
			Rule: r,
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(r.Keyword) + `\b`),
		})
	}
	return d
}

// WithMaxFindings sets the cap on reported findings.
func (d *KeywordDetector) WithMaxFindings(n int) *KeywordDetector {
	d.maxFindings = n
	return d
}

// Matches returns up to the configured number of hits, rule by rule.
func (d *KeywordDetector) Matches(text string) []Match {
	var matches []Match
	for _, rule := range d.rules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			if len(matches) >= d.maxFindings {
				return matches
			}
			matches = append(matches, Match{
				Rule:    rule.Rule,
				Start:   loc[0],
				End:     loc[1],
				Context: d.context.Extract(text, loc[0], loc[1]),
			})
		}
	}
	return matches
}

// Detect returns the keyword findings for text with ids from 1.
func (d *KeywordDetector) Detect(text string) []analysis.RiskFinding {
	matches := d.Matches(text)
	findings := make([]analysis.RiskFinding, 0, len(matches))
	for i, m := range matches {
		findings = append(findings, analysis.RiskFinding{
			ID:          i + 1,
			Severity:    m.Rule.Severity,
			Category:    m.Rule.Category,
			Title:       fmt.Sprintf("Clause regarding '%s'", m.Rule.Keyword),
			Explanation: m.Rule.Explanation,
			Snippet:     m.Context.Snippet,
		})
	}
	return findings
}

// Analyze builds a complete keyword-only result.
func (d *KeywordDetector) Analyze(fileName, text string) *analysis.Result {
	return &analysis.Result{
		FileName: fileName,
		Text:     text,
		Summary:  append([]string(nil), FallbackSummary...),
		Risks:    d.Detect(text),
	}
}
