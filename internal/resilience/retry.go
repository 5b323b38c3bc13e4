// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries      int                          // attempts after the first
	InitialInterval time.Duration                // delay before the first retry
	MaxInterval     time.Duration                // cap on any single delay
	Multiplier      float64                      // growth factor between retries
	Jitter          bool                         // add up to 25% random noise
	OnRetry         func(attempt int, err error) // invoked before each retry
}

// DefaultRetryConfig returns the retry policy for model calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     8 * time.Second,
		Multiplier:      2.0,
		Jitter:          true,
	}
}

// RetryableOperation represents an operation that can be retried.
type RetryableOperation func(ctx context.Context) error

// backoff returns the delay before the given retry (1-based):
// InitialInterval * Multiplier^(attempt-1), capped at MaxInterval.
func (c RetryConfig) backoff(attempt int) time.Duration {
	delay := float64(c.InitialInterval)
	for i := 1; i < attempt; i++ {
		delay *= c.Multiplier
	}
	if c.Jitter {
		delay += delay * 0.25 * rand.Float64()
	}
	if c.MaxInterval > 0 {
		return min(time.Duration(delay), c.MaxInterval)
	}
	return time.Duration(delay)
}

// RetryWithBackoff runs operation until it succeeds, returns a
// non-retryable error, or the retries are used up.
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation RetryableOperation) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.backoff(attempt)):
			}
			if config.OnRetry != nil {
				config.OnRetry(attempt, lastErr)
			}
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// RetryableFunc is a retryable function that returns a value.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// RetryWithResult is RetryWithBackoff for functions that return a value.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn RetryableFunc[T]) (T, error) {
	var result T
	err := RetryWithBackoff(ctx, config, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}

// RetryWithCircuitBreaker runs each attempt through cb.
func RetryWithCircuitBreaker[T any](ctx context.Context, config RetryConfig, cb *CircuitBreaker, fn RetryableFunc[T]) (T, error) {
	return RetryWithResult(ctx, config, func(ctx context.Context) (T, error) {
		var result T
		err := cb.Execute(ctx, func(ctx context.Context) error {
			var e error
			result, e = fn(ctx)
			return e
		})
		return result, err
	})
}
