// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTickInterval   = 200 * time.Millisecond
	DefaultMinIncrement   = 5
	DefaultMaxIncrement   = 19
	DefaultCeiling        = 90
	DefaultAnalyzingDelay = 1500 * time.Millisecond
)

// SelectionClearer drops the active finding selection when a run starts or
// the pipeline is reset.
type SelectionClearer interface {
	Clear()
}

// Options tunes a Controller. Zero values take the defaults above.
type Options struct {
	TickInterval   time.Duration
	MinIncrement   int
	MaxIncrement   int
	Ceiling        int
	AnalyzingDelay time.Duration

	// Rand returns a value in [0, n).
	Rand  func(n int) int
	Clock Clock

	Selection SelectionClearer
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.MinIncrement <= 0 {
		o.MinIncrement = DefaultMinIncrement
	}
	if o.MaxIncrement < o.MinIncrement {
		o.MaxIncrement = max(DefaultMaxIncrement, o.MinIncrement)
	}
	if o.Ceiling <= 0 || o.Ceiling >= 100 {
		o.Ceiling = DefaultCeiling
	}
	if o.AnalyzingDelay < 0 {
		o.AnalyzingDelay = 0
	} else if o.AnalyzingDelay == 0 {
		o.AnalyzingDelay = DefaultAnalyzingDelay
	}
	if o.Rand == nil {
		o.Rand = rand.IntN
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o Options) increment() int {
	return o.MinIncrement + o.Rand(o.MaxIncrement-o.MinIncrement+1)
}
