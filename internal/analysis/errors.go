// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import "errors"

// Failure kinds shared by the annotation engine, the remote client and the
// pipeline. Callers wrap these with %w and test with errors.Is.
var (
	// ErrPatternCompilation means highlighting is disabled for the document.
	ErrPatternCompilation = errors.New("pattern compilation failed")

	// ErrRemoteSubmission covers transport failures talking to the analyzer.
	ErrRemoteSubmission = errors.New("remote submission failed")

	// ErrMalformedResponse covers non-success statuses and bodies that do not
	// decode into a valid Result.
	ErrMalformedResponse = errors.New("malformed analysis response")
)
