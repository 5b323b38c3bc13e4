// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package annotate

// Kind tags a segment.
type Kind int

const (
	// Plain text, not associated with any finding.
	Plain Kind = iota
	// Candidate text satisfied the matcher but has not been resolved yet.
	Candidate
	// Matched text is associated with exactly one finding.
	Matched
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Candidate:
		return "candidate"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Segment is a contiguous slice of the document, text[Start:End].
type Segment struct {
	Text      string
	Start     int
	End       int
	Kind      Kind
	FindingID int // meaningful only when Kind == Matched
}

// IsMatched reports whether the segment is highlighted for a finding.
func (s Segment) IsMatched() bool {
	return s.Kind == Matched
}

// Partition splits text into alternating plain gaps and candidate segments.
// Gaps may be empty. Concatenating the segment texts in order always
// reproduces text exactly.
func Partition(text string, m *Matcher) []Segment {
	if m == nil {
		return []Segment{{Text: text, Start: 0, End: len(text), Kind: Plain}}
	}

	locs := m.re.FindAllStringIndex(text, -1)
	segments := make([]Segment, 0, 2*len(locs)+1)
	cursor := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if end == start {
			continue
		}
		segments = append(segments,
			Segment{Text: text[cursor:start], Start: cursor, End: start, Kind: Plain},
			Segment{Text: text[start:end], Start: start, End: end, Kind: Candidate},
		)
		cursor = end
	}
	segments = append(segments, Segment{Text: text[cursor:], Start: cursor, End: len(text), Kind: Plain})
	return segments
}
