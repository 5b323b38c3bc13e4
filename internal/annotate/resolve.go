// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MinMatchLength is the shortest normalized candidate, in runes, that may be
// associated with a finding. Shorter candidates stay plain.
const MinMatchLength = 3

// Normalize collapses whitespace runs to a single space, trims the ends and
// case-folds the result.
func Normalize(s string) string {
	collapsed := strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(collapsed)
}

// Resolve assigns every candidate segment to at most one finding, or demotes
// it to plain. Among findings whose normalized snippet equals the normalized
// candidate, the first in the matcher's priority order wins.
func Resolve(segments []Segment, m *Matcher) []Segment {
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		if seg.Kind != Candidate {
			continue
		}
		out[i].Kind = Plain
		out[i].FindingID = 0

		if m == nil {
			continue
		}
		candidate := Normalize(seg.Text)
		if utf8.RuneCountInString(candidate) < MinMatchLength {
			continue
		}
		for j, snippet := range m.normalized {
			if snippet == candidate {
				out[i].Kind = Matched
				out[i].FindingID = m.findings[j].ID
				break
			}
		}
	}
	return out
}
