// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core runs one upload through extraction and risk analysis. It is
// shared by the HTTP service and the CLI's local mode.
package core

import (
	"context"
	"io"

	"legallens/internal/analysis"
	"legallens/internal/detector"
	"legallens/internal/extract"
	"legallens/internal/observability"
	"legallens/internal/riskai"

	"go.uber.org/zap"
)

// Source names which analyzer produced a result.
type Source string

const (
	SourceModel    Source = "model"
	SourceKeywords Source = "keywords"
)

// TextExtractor turns an upload into text.
type TextExtractor interface {
	Extract(ctx context.Context, upload analysis.Upload) (*extract.Document, error)
}

// RiskModel is the model-backed analyzer.
type RiskModel interface {
	Enabled() bool
	Analyze(ctx context.Context, text string) (*riskai.Findings, error)
}

// Service analyzes uploads.
type Service struct {
	extractor TextExtractor
	model     RiskModel
	keywords  *detector.KeywordDetector
	observer  *observability.Observer
	logger    *zap.Logger
}

// NewService wires a Service. model may be nil, in which case every upload
// is analyzed by keyword.
func NewService(extractor TextExtractor, model RiskModel, keywords *detector.KeywordDetector, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keywords == nil {
		keywords = detector.New(nil)
	}
	return &Service{
		extractor: extractor,
		model:     model,
		keywords:  keywords,
		observer:  observability.NewObserver(logger),
		logger:    logger.Named("core"),
	}
}

// Analyze extracts the upload's text and analyzes it. Extraction failures
// are returned; model failures fall back to keyword matching.
func (s *Service) Analyze(ctx context.Context, upload analysis.Upload) (*analysis.Result, error) {
	result, _, err := s.AnalyzeWithSource(ctx, upload)
	return result, err
}

// AnalyzeWithSource is Analyze that also reports which analyzer answered.
func (s *Service) AnalyzeWithSource(ctx context.Context, upload analysis.Upload) (*analysis.Result, Source, error) {
	done := s.observer.StartTiming("extract", "text", upload.FileName)
	doc, err := s.extractor.Extract(ctx, upload)
	if err != nil {
		done(false, zap.Error(err))
		return nil, "", err
	}
	done(true, zap.Int("chars", len(doc.Text)), zap.Int("pages", doc.Pages), zap.String("format", doc.Format))

	if result, ok := s.modelResult(ctx, upload.FileName, doc.Text); ok {
		return result, SourceModel, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	done = s.observer.StartTiming("detector", "keywords", upload.FileName)
	result := s.keywords.Analyze(upload.FileName, doc.Text)
	done(true, zap.Int("risks", len(result.Risks)))
	return result, SourceKeywords, nil
}

func (s *Service) modelResult(ctx context.Context, fileName, text string) (*analysis.Result, bool) {
	if s.model == nil || !s.model.Enabled() {
		s.logger.Info("No model configured, using keyword matching", zap.String("file_name", fileName))
		return nil, false
	}

	done := s.observer.StartTiming("riskai", "generate", fileName)
	findings, err := s.model.Analyze(ctx, text)
	if err != nil {
		done(false, zap.Error(err))
		return nil, false
	}

	result := &analysis.Result{
		FileName: fileName,
		Text:     text,
		Summary:  findings.Summary,
		Risks:    findings.Risks,
	}
	if err := result.Validate(); err != nil {
		done(false, zap.String("model", findings.Model), zap.Error(err))
		return nil, false
	}
	done(true, zap.String("model", findings.Model), zap.Int("risks", len(result.Risks)))
	return result, true
}

// Close releases the model's credentials when it holds any.
func (s *Service) Close() error {
	if closer, ok := s.model.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
