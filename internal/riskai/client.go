// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package riskai asks a Gemini model for a contract summary and risk list.
package riskai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"legallens/internal/analysis"
	"legallens/internal/resilience"
	"legallens/internal/security"

	"go.uber.org/zap"
)

var (
	// ErrNoAPIKey means no Gemini API key is configured.
	ErrNoAPIKey = errors.New("gemini api key not configured")
	// ErrNoModel means every configured model was unknown to the API.
	ErrNoModel = errors.New("no usable gemini model")
	// ErrBadOutput means the model answered with something other than the
	// requested JSON.
	ErrBadOutput = errors.New("unusable model output")
)

const maxResponseBytes = 8 << 20

// Config configures a Client.
type Config struct {
	APIKey   string
	BaseURL  string
	Models   []string
	MaxChars int
	Timeout  time.Duration
	Retry    resilience.RetryConfig
}

// Findings is what the model contributes to a Result.
type Findings struct {
	Model   string
	Summary []string
	Risks   []analysis.RiskFinding
}

// Client calls the generateContent endpoint.
type Client struct {
	cfg        Config
	key        *security.Secret
	httpClient *http.Client
	logger     *zap.Logger

	mu       sync.Mutex
	breakers map[string]*resilience.CircuitBreaker
}

// New returns a Client. Model names may carry a "models/" prefix; duplicates
// after trimming it are dropped.
func New(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.Models = normalizeModels(cfg.Models)
	key := security.NewSecret(strings.TrimSpace(cfg.APIKey))
	cfg.APIKey = ""
	return &Client{
		cfg:        cfg,
		key:        key,
		httpClient: httpClient,
		logger:     logger.Named("riskai"),
		breakers:   make(map[string]*resilience.CircuitBreaker),
	}
}

func normalizeModels(models []string) []string {
	seen := make(map[string]bool, len(models))
	out := make([]string, 0, len(models))
	for _, m := range models {
		m = strings.TrimPrefix(strings.TrimSpace(m), "models/")
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.key.IsSet()
}

// Close drops the API key. The client reports itself disabled afterwards.
func (c *Client) Close() error {
	c.key.Clear()
	return nil
}

// Models returns the models tried, in order.
func (c *Client) Models() []string {
	return append([]string(nil), c.cfg.Models...)
}

// Analyze asks the first available model about text. Models the API does not
// know are skipped; any other failure ends the attempt.
func (c *Client) Analyze(ctx context.Context, text string) (*Findings, error) {
	if !c.Enabled() {
		return nil, ErrNoAPIKey
	}
	prompt := BuildPrompt(text, c.cfg.MaxChars)

	for _, model := range c.cfg.Models {
		output, err := resilience.RetryWithCircuitBreaker(ctx, c.retryConfig(model), c.breaker(model),
			func(ctx context.Context) (string, error) {
				return c.generate(ctx, model, prompt)
			})
		if err != nil {
			if resilience.ClassifyError(err).Type == resilience.ErrorTypeModelNotFound {
				c.logger.Info("Model unavailable, trying next", zap.String("model", model))
				continue
			}
			return nil, fmt.Errorf("model %s: %w", model, err)
		}

		findings, err := parseOutput(output)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model, err)
		}
		findings.Model = model
		return findings, nil
	}
	return nil, ErrNoModel
}

func (c *Client) retryConfig(model string) resilience.RetryConfig {
	cfg := c.cfg.Retry
	cfg.OnRetry = func(attempt int, err error) {
		c.logger.Warn("Retrying model call",
			zap.String("model", model),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return cfg
}

func (c *Client) breaker(model string) *resilience.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[model]; ok {
		return cb
	}
	cfg := resilience.DefaultCircuitBreakerConfig(model)
	cfg.OnStateChange = func(name string, from, to resilience.CircuitBreakerState) {
		c.logger.Warn("Circuit breaker state changed",
			zap.String("model", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}
	cb := resilience.NewCircuitBreaker(cfg)
	c.breakers[model] = cb
	return cb
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) endpoint(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, model)
}

func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(model), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.key.Reveal())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", &resilience.StatusError{StatusCode: res.StatusCode, Body: truncateRunes(string(body), 300)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	if len(decoded.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrBadOutput)
	}
	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}
