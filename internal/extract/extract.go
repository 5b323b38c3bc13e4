// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract turns an uploaded contract into plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"legallens/internal/analysis"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

var (
	// ErrNoText means the document yielded no usable text.
	ErrNoText = errors.New("could not extract text")
	// ErrInvalidPDF means the upload claimed to be a PDF but failed validation.
	ErrInvalidPDF = errors.New("invalid pdf")
)

// DefaultMaxPages bounds how many PDF pages are read.
const DefaultMaxPages = 200

var disableConfigDir sync.Once

// Document is the text of one upload.
type Document struct {
	FileName string
	Text     string
	Pages    int
	Format   string // "pdf" or "text"
}

// Extractor reads PDF and plain-text uploads.
type Extractor struct {
	maxPages int
	logger   *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxPages caps the number of PDF pages read.
func WithMaxPages(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// New returns an Extractor.
func New(opts ...Option) *Extractor {
	disableConfigDir.Do(api.DisableConfigDir)
	e := &Extractor{maxPages: DefaultMaxPages, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsPDF reports whether the file name has a .pdf extension.
func IsPDF(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

// Extract returns the text of upload. PDFs are validated before text is
// read; anything else is decoded as UTF-8 with invalid bytes dropped.
func (e *Extractor) Extract(ctx context.Context, upload analysis.Upload) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &Document{FileName: upload.FileName}
	if IsPDF(upload.FileName) {
		text, pages, err := e.pdfText(upload.Content)
		if err != nil {
			return nil, err
		}
		doc.Text, doc.Pages, doc.Format = text, pages, "pdf"
	} else {
		doc.Text, doc.Pages, doc.Format = strings.ToValidUTF8(string(upload.Content), ""), 1, "text"
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("%w from %s", ErrNoText, upload.FileName)
	}
	return doc, nil
}

func (e *Extractor) pdfText(content []byte) (string, int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(content), conf)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if err := api.ValidateContext(pdfCtx); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	pages := r.NumPage()
	if pages > e.maxPages {
		e.logger.Warn("PDF truncated",
			zap.Int("pages", pages),
			zap.Int("max_pages", e.maxPages))
		pages = e.maxPages
	}

	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		text, err := pageText(r.Page(i))
		if err != nil {
			e.logger.Debug("Skipping unreadable page", zap.Int("page", i), zap.Error(err))
			continue
		}
		if text = strings.TrimRight(text, "\n"); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n"), pages, nil
}

// pageText reads one page row by row. The pdf package panics on some
// malformed content streams, so that is turned into an error.
func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page: %v", r)
		}
	}()
	if p.V.IsNull() {
		return "", errors.New("null page")
	}

	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	var b strings.Builder
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}
		line := rowText(row.Content)
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// rowText joins a row's glyph runs left to right, inserting a space where
// the gap exceeds a fifth of the font size.
func rowText(elements []pdf.Text) string {
	sorted := append([]pdf.Text(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, el := range sorted {
		b.WriteString(el.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := el.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		gap := sorted[i+1].X - (el.X + el.W)
		if gap > fontSize*0.2 && !strings.HasSuffix(el.S, " ") && !strings.HasPrefix(sorted[i+1].S, " ") {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
