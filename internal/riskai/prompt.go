// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package riskai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// responseShape is shown to the model as the structure to follow.
var responseShape = map[string]any{
	"summary": []string{"Point 1", "Point 2", "Point 3", "Point 4", "Point 5"},
	"risks": []map[string]any{{
		"id":          1,
		"type":        "High",
		"category":    "Privacy",
		"title":       "Risk Title",
		"explanation": "Why risky",
		"snippet":     "Exact quote from text",
	}},
}

// BuildPrompt returns the instruction text for a contract, keeping at most
// maxChars characters of it.
func BuildPrompt(text string, maxChars int) string {
	shape, _ := json.Marshal(responseShape)

	var b strings.Builder
	b.WriteString("You are a legal AI. Output valid JSON only. Do not use Markdown blocks. ")
	b.WriteString("Exactly five points and do not number them. ")
	b.WriteString("For risks, provide id, type (High/Medium/Low), category (e.g. Privacy, Liability), title, explanation, and a snippet from the text.\n\n")
	b.WriteString("Make the summary concise and the risks specific.\n\n")
	b.WriteString("Follow this JSON structure exactly:\n")
	b.Write(shape)
	b.WriteString("\n\nCONTRACT TEXT:\n")
	b.WriteString(truncateRunes(text, maxChars))
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

var fence = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*|\\s*```$")

// StripFences removes a Markdown code fence wrapped around the model output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	return strings.TrimSpace(fence.ReplaceAllString(s, ""))
}
