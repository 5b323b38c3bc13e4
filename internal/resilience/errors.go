// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrorType is the handling strategy for a failed model call.
type ErrorType int

const (
	ErrorTypeUnknown            ErrorType = iota
	ErrorTypeTransient                    // connection resets, DNS hiccups
	ErrorTypePermanent                    // bad API key, permission denied
	ErrorTypeTimeout                      // deadline hit before a response
	ErrorTypeRateLimit                    // 429 / RESOURCE_EXHAUSTED
	ErrorTypeServiceUnavailable           // 5xx from the model endpoint
	ErrorTypeInvalidInput                 // 400, prompt rejected
	ErrorTypeModelNotFound                // 404, model retired or misspelled
	ErrorTypeCanceled                     // caller gave up
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnknown:
		return "Unknown"
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeRateLimit:
		return "RateLimit"
	case ErrorTypeServiceUnavailable:
		return "ServiceUnavailable"
	case ErrorTypeInvalidInput:
		return "InvalidInput"
	case ErrorTypeModelNotFound:
		return "ModelNotFound"
	case ErrorTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// StatusError is a non-2xx answer from an HTTP API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Original == nil {
		return e.Type.String()
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

func classified(err error, t ErrorType, retryable bool, prefix string) *ClassifiedError {
	return &ClassifiedError{
		Original:  err,
		Type:      t,
		Message:   fmt.Sprintf("%s: %v", prefix, err),
		Retryable: retryable,
	}
}

// ClassifyError categorizes an error for appropriate handling
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var already *ClassifiedError
	if errors.As(err, &already) {
		return already
	}

	var cbErr *CircuitBreakerError
	if errors.As(err, &cbErr) {
		return classified(err, ErrorTypeServiceUnavailable, false, "Circuit open")
	}

	if errors.Is(err, context.Canceled) {
		return classified(err, ErrorTypeCanceled, false, "Canceled")
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(err, statusErr)
	}

	if isTimeoutError(err) {
		return classified(err, ErrorTypeTimeout, true, "Timeout error")
	}

	if isNetworkError(err) {
		return classified(err, ErrorTypeTransient, true, "Network error")
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "resource_exhausted") || strings.Contains(errStr, "rate limit"):
		return classified(err, ErrorTypeRateLimit, true, "Rate limit exceeded")
	case strings.Contains(errStr, "unavailable") || strings.Contains(errStr, "overloaded"):
		return classified(err, ErrorTypeServiceUnavailable, true, "Service unavailable")
	case strings.Contains(errStr, "permission_denied") || strings.Contains(errStr, "api key not valid"):
		return classified(err, ErrorTypePermanent, false, "Authentication error")
	}

	return classified(err, ErrorTypeUnknown, false, "Unknown error")
}

func classifyStatus(err error, statusErr *StatusError) *ClassifiedError {
	code := statusErr.StatusCode
	switch {
	case code == http.StatusTooManyRequests:
		return classified(err, ErrorTypeRateLimit, true, "Rate limit exceeded")
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return classified(err, ErrorTypeTimeout, true, "Timeout error")
	case code >= 500:
		return classified(err, ErrorTypeServiceUnavailable, true, "Service unavailable")
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return classified(err, ErrorTypePermanent, false, "Authentication error")
	case code == http.StatusNotFound:
		return classified(err, ErrorTypeModelNotFound, false, "Model not found")
	case code >= 400:
		return classified(err, ErrorTypeInvalidInput, false, "Invalid request")
	}
	return classified(err, ErrorTypeUnknown, false, "Unknown error")
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}
