// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package remote submits documents to a LegalLens analyzer service.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"legallens/internal/analysis"

	"go.uber.org/zap"
)

// FormField is the multipart field that carries the document.
const FormField = "file"

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 512

// Client posts documents to {BaseURL}/analyze.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The default has no
// timeout; the request is bounded only by the caller's context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient returns a client for the analyzer at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the analyze URL.
func (c *Client) Endpoint() string {
	return c.baseURL + "/analyze"
}

// Analyze uploads the document and decodes the analyzer's answer.
// Transport failures wrap analysis.ErrRemoteSubmission; unsuccessful
// statuses and unusable bodies wrap analysis.ErrMalformedResponse.
func (c *Client) Analyze(ctx context.Context, upload analysis.Upload) (*analysis.Result, error) {
	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding upload: %v", analysis.ErrRemoteSubmission, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrRemoteSubmission, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrRemoteSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("Analyzer returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return nil, fmt.Errorf("%w: status %d", analysis.ErrMalformedResponse, resp.StatusCode)
	}

	result, err := analysis.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Analyzer response decoded",
		zap.String("file_name", result.FileName),
		zap.Int("risks", len(result.Risks)))
	return result, nil
}

func encodeUpload(upload analysis.Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(FormField, upload.FileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
