// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"go.uber.org/zap"
)

// Observer times the stages of an analysis and logs one entry per stage.
type Observer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewObserver returns an observer that logs through logger. A nil logger
// discards everything.
func NewObserver(logger *zap.Logger) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{logger: logger, now: time.Now}
}

// StartTiming returns a function to complete timing. Failures are logged at
// warn, successes at debug.
func (o *Observer) StartTiming(component, operation, subject string) func(success bool, fields ...zap.Field) {
	start := o.now()

	return func(success bool, fields ...zap.Field) {
		all := append([]zap.Field{
			zap.String("component", component),
			zap.String("operation", operation),
			zap.String("subject", subject),
			zap.Int64("duration_ms", o.now().Sub(start).Milliseconds()),
			zap.Bool("success", success),
		}, fields...)

		if success {
			o.logger.Debug("Stage finished", all...)
			return
		}
		o.logger.Warn("Stage failed", all...)
	}
}
