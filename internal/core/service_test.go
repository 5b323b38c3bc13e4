// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"legallens/internal/analysis"
	"legallens/internal/config"
	"legallens/internal/detector"
	"legallens/internal/extract"
	"legallens/internal/riskai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	enabled  bool
	findings *riskai.Findings
	err      error
	calls    int
}

func (s *stubModel) Enabled() bool { return s.enabled }

func (s *stubModel) Analyze(ctx context.Context, text string) (*riskai.Findings, error) {
	s.calls++
	return s.findings, s.err
}

func upload(text string) analysis.Upload {
	return analysis.Upload{FileName: "terms.txt", Content: []byte(text)}
}

func TestService_ModelResult(t *testing.T) {
	model := &stubModel{enabled: true, findings: &riskai.Findings{
		Model:   "gemini-2.5-flash",
		Summary: []string{"One."},
		Risks:   []analysis.RiskFinding{{ID: 1, Severity: analysis.SeverityHigh, Title: "Sale", Snippet: "sell"}},
	}}
	svc := NewService(extract.New(), model, nil, nil)

	result, source, err := svc.AnalyzeWithSource(context.Background(), upload(analysis.SampleContract))
	require.NoError(t, err)
	assert.Equal(t, SourceModel, source)
	assert.Equal(t, "terms.txt", result.FileName)
	assert.Equal(t, analysis.SampleContract, result.Text)
	assert.Equal(t, []string{"One."}, result.Summary)
	assert.Len(t, result.Risks, 1)
}

func TestService_FallsBackToKeywords(t *testing.T) {
	cases := map[string]*stubModel{
		"disabled":    {enabled: false},
		"model error": {enabled: true, err: riskai.ErrNoModel},
		"invalid":     {enabled: true, findings: &riskai.Findings{Risks: []analysis.RiskFinding{{ID: 1, Severity: "Odd", Title: "x"}}}},
	}
	for name, model := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewService(extract.New(), model, nil, nil)
			result, source, err := svc.AnalyzeWithSource(context.Background(), upload(analysis.SampleContract))
			require.NoError(t, err)
			assert.Equal(t, SourceKeywords, source)
			assert.Equal(t, detector.FallbackSummary, result.Summary)
			assert.NotEmpty(t, result.Risks)
			assert.NoError(t, result.Validate())
		})
	}
}

func TestService_NilModel(t *testing.T) {
	result, err := NewService(extract.New(), nil, nil, nil).Analyze(context.Background(), upload("Termination is at will."))
	require.NoError(t, err)
	require.Len(t, result.Risks, 1)
	assert.Equal(t, "Clause regarding 'termination'", result.Risks[0].Title)
}

func TestService_ExtractionFailure(t *testing.T) {
	model := &stubModel{enabled: true}
	_, err := NewService(extract.New(), model, nil, nil).Analyze(context.Background(), upload("   "))
	assert.True(t, errors.Is(err, extract.ErrNoText))
	assert.Zero(t, model.calls)
}

func TestService_CancelledDuringModel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := &stubModel{enabled: true, err: context.Canceled}
	svc := NewService(extract.New(), &cancellingModel{stubModel: model, cancel: cancel}, nil, nil)

	_, err := svc.Analyze(ctx, upload("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

type cancellingModel struct {
	*stubModel
	cancel context.CancelFunc
}

func (c *cancellingModel) Analyze(ctx context.Context, text string) (*riskai.Findings, error) {
	c.cancel()
	return c.stubModel.Analyze(ctx, text)
}

func TestNewServiceFromConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"summary\":[\"A\"],\"risks\":[{\"id\":1,\"type\":\"Low\",\"title\":\"T\",\"snippet\":\"fees\"}]}"}]}}]}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Gemini.APIKey = "key"
	cfg.Gemini.BaseURL = srv.URL
	cfg.Gemini.MaxRetries = 0

	result, source, err := NewServiceFromConfig(cfg, nil).AnalyzeWithSource(context.Background(), upload("fees apply"))
	require.NoError(t, err)
	assert.Equal(t, SourceModel, source)
	assert.Equal(t, analysis.SeverityLow, result.Risks[0].Severity)
}

func TestService_CloseDisablesModel(t *testing.T) {
	cfg := config.Default()
	cfg.Gemini.APIKey = "key"
	svc := NewServiceFromConfig(cfg, nil)
	require.True(t, svc.model.Enabled())

	require.NoError(t, svc.Close())
	assert.False(t, svc.model.Enabled())

	assert.NoError(t, NewService(extract.New(), nil, nil, nil).Close())
}
