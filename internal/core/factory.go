// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"legallens/internal/config"
	"legallens/internal/detector"
	"legallens/internal/extract"
	"legallens/internal/resilience"
	"legallens/internal/riskai"

	"go.uber.org/zap"
)

// NewServiceFromConfig builds the Service used by both the HTTP server and
// local CLI runs.
func NewServiceFromConfig(cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxRetries = cfg.Gemini.MaxRetries

	model := riskai.New(riskai.Config{
		APIKey:   cfg.Gemini.APIKey,
		BaseURL:  cfg.Gemini.BaseURL,
		Models:   cfg.Gemini.Models,
		MaxChars: cfg.Gemini.MaxChars,
		Timeout:  cfg.Gemini.Timeout,
		Retry:    retry,
	}, nil, logger)

	return NewService(
		extract.New(extract.WithLogger(logger)),
		model,
		detector.New(nil),
		logger,
	)
}
