// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package riskai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"legallens/internal/analysis"
)

type modelRisk struct {
	ID          json.RawMessage `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Explanation string          `json:"explanation"`
	Snippet     string          `json:"snippet"`
}

type modelOutput struct {
	Summary []string    `json:"summary"`
	Risks   []modelRisk `json:"risks"`
}

// parseOutput decodes the model's JSON and repairs what the rest of the
// system cannot accept: missing or repeated ids, loose severity labels and
// empty titles.
func parseOutput(raw string) (*Findings, error) {
	var out modelOutput
	if err := json.Unmarshal([]byte(StripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}

	findings := &Findings{
		Summary: make([]string, 0, len(out.Summary)),
		Risks:   make([]analysis.RiskFinding, 0, len(out.Risks)),
	}
	for _, point := range out.Summary {
		if point = strings.TrimSpace(point); point != "" {
			findings.Summary = append(findings.Summary, point)
		}
	}

	used := make(map[int]bool, len(out.Risks))
	for _, r := range out.Risks {
		if id, ok := parseID(r.ID); ok {
			used[id] = true
		}
	}
	claimed := make(map[int]bool, len(out.Risks))
	next := 1
	for _, r := range out.Risks {
		id, ok := parseID(r.ID)
		if !ok || claimed[id] {
			for used[next] || claimed[next] {
				next++
			}
			id = next
		}
		claimed[id] = true

		severity, ok := analysis.ParseSeverity(r.Type)
		if !ok {
			severity = analysis.SeverityMedium
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = "Potential risk"
		}
		findings.Risks = append(findings.Risks, analysis.RiskFinding{
			ID:          id,
			Severity:    severity,
			Category:    strings.TrimSpace(r.Category),
			Title:       title,
			Explanation: strings.TrimSpace(r.Explanation),
			Snippet:     strings.TrimSpace(r.Snippet),
		})
	}
	return findings, nil
}

// parseID accepts a positive integer written as a number or a string.
func parseID(raw json.RawMessage) (int, bool) {
	id, err := strconv.Atoi(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
