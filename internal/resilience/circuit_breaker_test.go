// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type manualClock struct{ now time.Time }

func (m *manualClock) Now() time.Time { return m.now }

func failing(ctx context.Context) error { return &StatusError{StatusCode: 503} }
func passing(ctx context.Context) error { return nil }

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "gemini",
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          10 * time.Second,
		Now:              clock.Now,
		OnStateChange: func(name string, from, to CircuitBreakerState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	assert.Equal(t, StateClosed, cb.State())
	_ = cb.Execute(ctx, failing)
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(ctx, passing)
	var cbErr *CircuitBreakerError
	assert.True(t, errors.As(err, &cbErr))

	clock.now = clock.now.Add(11 * time.Second)
	assert.NoError(t, cb.Execute(ctx, passing))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Second, Now: clock.Now})
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	clock.now = clock.now.Add(2 * time.Second)
	_ = cb.Execute(ctx, failing)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IgnoresNonRetryableErrors(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, Timeout: time.Minute})
	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error {
			return &StatusError{StatusCode: 400}
		})
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, Timeout: time.Hour})
	_ = cb.Execute(context.Background(), failing)
	assert.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), passing))
}

func TestRetryWithCircuitBreaker_StopsWhenOpen(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, Timeout: time.Hour})
	calls := 0
	_, err := RetryWithCircuitBreaker(context.Background(), fastRetry(3), cb, func(ctx context.Context) (int, error) {
		calls++
		return 0, &StatusError{StatusCode: 503}
	})

	var cbErr *CircuitBreakerError
	assert.True(t, errors.As(err, &cbErr))
	assert.Equal(t, 1, calls)
}
