// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"legallens/internal/analysis"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a single-page PDF that shows each line with Helvetica.
func buildPDF(lines ...string) []byte {
	var stream bytes.Buffer
	stream.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
	for _, line := range lines {
		fmt.Fprintf(&stream, "(%s) Tj T*\n", line)
	}
	stream.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", stream.Len(), stream.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding" +
			" /FirstChar 32 /LastChar 126 /Widths [" + strings.TrimSpace(strings.Repeat("500 ", 95)) + "] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract_PlainText(t *testing.T) {
	doc, err := New().Extract(context.Background(), analysis.Upload{
		FileName: "terms.txt",
		Content:  []byte(analysis.SampleContract),
	})
	require.NoError(t, err)
	assert.Equal(t, analysis.SampleContract, doc.Text)
	assert.Equal(t, "text", doc.Format)
	assert.Equal(t, "terms.txt", doc.FileName)
}

func TestExtract_DropsInvalidUTF8(t *testing.T) {
	doc, err := New().Extract(context.Background(), analysis.Upload{
		FileName: "terms",
		Content:  []byte("fees\xff\xfe apply"),
	})
	require.NoError(t, err)
	assert.Equal(t, "fees apply", doc.Text)
}

func TestExtract_EmptyText(t *testing.T) {
	for _, content := range []string{"", "   \n\t  "} {
		_, err := New().Extract(context.Background(), analysis.Upload{FileName: "blank.txt", Content: []byte(content)})
		assert.True(t, errors.Is(err, ErrNoText), "content %q", content)
	}
}

func TestExtract_InvalidPDF(t *testing.T) {
	_, err := New().Extract(context.Background(), analysis.Upload{
		FileName: "contract.PDF",
		Content:  []byte("this is not a pdf"),
	})
	assert.True(t, errors.Is(err, ErrInvalidPDF))
}

func TestExtract_PDF(t *testing.T) {
	content := buildPDF("Any dispute shall be settled by binding arbitration.", "Fees may change.")

	doc, err := New().Extract(context.Background(), analysis.Upload{FileName: "contract.pdf", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "pdf", doc.Format)
	assert.Equal(t, 1, doc.Pages)
	assert.Contains(t, doc.Text, "binding arbitration")
	assert.Contains(t, doc.Text, "Fees may change.")
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Extract(ctx, analysis.Upload{FileName: "a.txt", Content: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("a.pdf"))
	assert.True(t, IsPDF("A.PDF"))
	assert.False(t, IsPDF("a.pdf.txt"))
	assert.False(t, IsPDF("pdf"))
}

func TestRowText(t *testing.T) {
	row := []pdf.Text{
		{S: "world", X: 40, W: 25, FontSize: 10},
		{S: "Hello", X: 0, W: 30, FontSize: 10},
	}
	assert.Equal(t, "Hello world", rowText(row))

	tight := []pdf.Text{
		{S: "ab", X: 0, W: 10, FontSize: 10},
		{S: "cd", X: 10.5, W: 10, FontSize: 10},
	}
	assert.Equal(t, "abcd", rowText(tight))
}
