// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"strings"
	"testing"
	"time"

	"legallens/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleFormatter struct{}

func (titleFormatter) Name() string          { return "titles" }
func (titleFormatter) Description() string   { return "finding titles" }
func (titleFormatter) FileExtension() string { return ".lst" }
func (titleFormatter) Format(result *analysis.Result, options FormatterOptions) (string, error) {
	var titles []string
	for _, risk := range FilterRisks(result.Risks, options) {
		titles = append(titles, risk.Title)
	}
	return strings.Join(titles, "\n"), nil
}

func TestRegistry_Export(t *testing.T) {
	r := NewRegistry()
	r.Register(titleFormatter{})

	out, err := r.Export("TITLES", analysis.Fallback(), FormatterOptions{})
	require.NoError(t, err)
	assert.Len(t, strings.Split(out, "\n"), 4)

	_, err = r.Export("pdf", analysis.Fallback(), FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available formats: titles")

	_, err = r.Export("titles", nil, FormatterOptions{})
	assert.Error(t, err)
}

func TestRegistry_ExportForDownload(t *testing.T) {
	r := NewRegistry()
	r.Register(titleFormatter{})

	content, mime, name, err := r.ExportForDownload("titles", analysis.Fallback(), FormatterOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Equal(t, "application/octet-stream", mime)
	assert.Equal(t, "Summary_startup_service_agreement.pdf.lst", name)
}

func TestFilterRisks(t *testing.T) {
	risks := analysis.Fallback().Risks

	assert.Equal(t, risks, FilterRisks(risks, FormatterOptions{}))

	high := FilterRisks(risks, FormatterOptions{Severities: map[analysis.Severity]bool{analysis.SeverityHigh: true}})
	require.Len(t, high, 2)
	for _, r := range high {
		assert.Equal(t, analysis.SeverityHigh, r.Severity)
	}
}

func TestParseSeverities(t *testing.T) {
	got, err := ParseSeverities("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseSeverities("ALL")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseSeverities("high, Low")
	require.NoError(t, err)
	assert.Equal(t, map[analysis.Severity]bool{analysis.SeverityHigh: true, analysis.SeverityLow: true}, got)

	_, err = ParseSeverities("high,critical")
	assert.ErrorContains(t, err, "critical")
}

func TestReportDate(t *testing.T) {
	fixed := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fixed, FormatterOptions{Date: fixed}.ReportDate())
	assert.WithinDuration(t, time.Now(), FormatterOptions{}.ReportDate(), time.Minute)
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "text/plain", MimeType("text"))
	assert.Equal(t, "application/json", MimeType("json"))
	assert.Equal(t, "application/x-yaml", MimeType("yaml"))
	assert.Equal(t, "text/csv", MimeType("csv"))
}
