// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"strings"
	"testing"

	"legallens/internal/analysis"
	"legallens/internal/formatters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_ParsesBack(t *testing.T) {
	out, err := NewFormatter().Format(analysis.Fallback(), formatters.FormatterOptions{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "Severity", records[0][2])
	assert.Equal(t, "1", records[1][1])
	assert.Equal(t, analysis.Fallback().Risks[0].Snippet, records[1][6])
}

func TestEscapeCSVField(t *testing.T) {
	f := NewFormatter()
	assert.Equal(t, "plain", f.escapeCSVField("plain"))
	assert.Equal(t, `"a, b"`, f.escapeCSVField("a, b"))
	assert.Equal(t, `"say ""hi"""`, f.escapeCSVField(`say "hi"`))
	assert.Equal(t, "'=SUM(A1)", f.escapeCSVField("=SUM(A1)"))
}
