// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"testing"

	"legallens/internal/analysis"
	"legallens/internal/annotate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_SampleContract(t *testing.T) {
	findings := New(nil).Detect(analysis.SampleContract)
	require.NotEmpty(t, findings)
	assert.LessOrEqual(t, len(findings), DefaultMaxFindings)

	first := findings[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "Clause regarding 'arbitration'", first.Title)
	assert.Equal(t, analysis.SeverityHigh, first.Severity)
	assert.Equal(t, "Legal Recourse", first.Category)
	assert.Contains(t, first.Snippet, "ARBITRATION AND GOVERNING LAW")
	assert.Contains(t, findings[1].Snippet, "binding arbitration")

	var keywords []string
	for i, f := range findings {
		assert.Equal(t, i+1, f.ID)
		assert.NotContains(t, f.Snippet, "\n")
		keywords = append(keywords, strings.TrimSuffix(strings.TrimPrefix(f.Title, "Clause regarding '"), "'"))
	}
	assert.Contains(t, keywords, "sell")
	assert.Contains(t, keywords, "damages")
	assert.NotContains(t, keywords, "indemnify")
}

func TestDetect_WholeWordsOnly(t *testing.T) {
	findings := New(nil).Detect("The seller and reseller may not SELL. Selling is fine.")
	require.Len(t, findings, 1)
	assert.Equal(t, "Clause regarding 'sell'", findings[0].Title)
	assert.Equal(t, "Privacy", findings[0].Category)
}

func TestDetect_CapsFindings(t *testing.T) {
	text := strings.Repeat("termination clause. ", 20)
	findings := New(nil).Detect(text)
	assert.Len(t, findings, DefaultMaxFindings)

	findings = New(nil).WithMaxFindings(2).Detect(text)
	assert.Len(t, findings, 2)
}

func TestDetect_NoKeywords(t *testing.T) {
	assert.Empty(t, New(nil).Detect("A perfectly pleasant agreement."))
}

func TestDetect_CustomRules(t *testing.T) {
	d := New([]Rule{{Keyword: "auto-renew", Severity: analysis.SeverityLow, Category: "Financial", Explanation: "Renews itself."}})
	findings := d.Detect("This plan will Auto-Renew yearly.")
	require.Len(t, findings, 1)
	assert.Equal(t, analysis.SeverityLow, findings[0].Severity)
}

func TestDetect_SnippetsHighlight(t *testing.T) {
	text := analysis.SampleContract
	findings := New(nil).Detect(text)
	doc := annotate.Annotate(text, findings)

	highlighted := 0
	for _, f := range findings {
		if _, ok := doc.SegmentFor(f.ID); ok {
			highlighted++
		}
	}
	// Overlapping windows compete for the same text, so not every finding
	// gets its own segment.
	assert.Positive(t, highlighted)
	assert.Equal(t, text, doc.Text())
}

func TestAnalyze(t *testing.T) {
	result := New(nil).Analyze("terms.txt", analysis.SampleContract)
	assert.Equal(t, "terms.txt", result.FileName)
	assert.Equal(t, FallbackSummary, result.Summary)
	assert.NoError(t, result.Validate())

	result.Summary[0] = "changed"
	assert.Equal(t, "AI Analysis unavailable.", FallbackSummary[0])
}

func TestContextExtractor_Window(t *testing.T) {
	text := "0123456789KEY0123456789"
	ce := NewContextExtractor().WithBeforeChars(3).WithAfterChars(4)
	info := ce.Extract(text, 10, 13)
	assert.Equal(t, "789", info.BeforeText)
	assert.Equal(t, "0123", info.AfterText)
	assert.Equal(t, "789KEY0123", info.Snippet)
}

func TestContextExtractor_ClampsAndCountsRunes(t *testing.T) {
	text := "é\nsell ü"
	info := NewContextExtractor().Extract(text, strings.Index(text, "sell"), strings.Index(text, "sell")+4)
	assert.Equal(t, "é sell ü", info.Snippet)

	ce := NewContextExtractor().WithBeforeChars(1).WithAfterChars(1)
	info = ce.Extract("ééselléé", 4, 8)
	assert.Equal(t, "é", info.BeforeText)
	assert.Equal(t, "é", info.AfterText)
}
