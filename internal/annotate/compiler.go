// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"legallens/internal/analysis"
)

// whitespaceRun matches one or more whitespace characters, including the
// Unicode separators and vertical tab that RE2's \s does not cover.
const whitespaceRun = `[\s\v\x{85}\p{Z}]+`

// Matcher scans document text for any of a set of finding snippets.
// A nil *Matcher is the "no matcher" value and is safe to pass around.
type Matcher struct {
	re *regexp.Regexp

	// findings in priority order: longest raw snippet first
	findings []analysis.RiskFinding

	// normalized snippets, parallel to findings
	normalized []string
}

// Compile builds a Matcher for the findings that carry a snippet. It returns
// nil when nothing can be matched; callers treat that exactly like a
// document in which no finding was found.
func Compile(findings []analysis.RiskFinding) *Matcher {
	m, _ := CompileErr(findings)
	return m
}

// CompileErr is Compile with the diagnostic kept. A nil Matcher is always
// accompanied by an error wrapping analysis.ErrPatternCompilation.
func CompileErr(findings []analysis.RiskFinding) (*Matcher, error) {
	ordered := make([]analysis.RiskFinding, 0, len(findings))
	for _, finding := range findings {
		if finding.HasSnippet() {
			ordered = append(ordered, finding)
		}
	}
	if len(ordered) == 0 {
		return nil, fmt.Errorf("%w: no findings with a snippet", analysis.ErrPatternCompilation)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return utf8.RuneCountInString(ordered[i].Snippet) > utf8.RuneCountInString(ordered[j].Snippet)
	})

	alternatives := make([]string, len(ordered))
	normalized := make([]string, len(ordered))
	for i, finding := range ordered {
		alternatives[i] = snippetPattern(finding.Snippet)
		normalized[i] = Normalize(finding.Snippet)
	}

	re, err := regexp.Compile("(?i)(?:" + strings.Join(alternatives, "|") + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrPatternCompilation, err)
	}

	return &Matcher{
		re:         re,
		findings:   ordered,
		normalized: normalized,
	}, nil
}

// snippetPattern escapes a snippet and loosens every whitespace run so that
// re-wrapped or re-justified text still matches.
func snippetPattern(snippet string) string {
	words := strings.FieldsFunc(strings.TrimSpace(snippet), unicode.IsSpace)
	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}
	return strings.Join(words, whitespaceRun)
}
