// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"

	"legallens/internal/analysis"
)

// ErrRunInProgress is returned by Start while a run is uploading or analyzing.
var ErrRunInProgress = errors.New("analysis run already in progress")

// Status is the phase of the pipeline.
type Status int

const (
	Idle Status = iota
	Uploading
	Analyzing
	Complete
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Analyzing:
		return "analyzing"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Busy reports whether a run is in flight.
func (s Status) Busy() bool {
	return s == Uploading || s == Analyzing
}

// State is a snapshot of the pipeline. Result is non-nil only when Status is
// Complete.
type State struct {
	Status   Status
	Progress int
	Result   *analysis.Result

	// Err is the diagnostic for a run that fell back. It is never shown to
	// the user.
	Err      error
	FellBack bool
	RunID    string
}
