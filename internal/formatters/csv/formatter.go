// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"strconv"
	"strings"

	"legallens/internal/analysis"
	"legallens/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "One row per finding for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(result *analysis.Result, options formatters.FormatterOptions) (string, error) {
	headers := []string{"File Name", "ID", "Severity", "Category", "Title", "Explanation", "Snippet"}
	rows := []string{strings.Join(headers, ",")}

	for _, risk := range formatters.FilterRisks(result.Risks, options) {
		row := []string{
			f.escapeCSVField(result.FileName),
			strconv.Itoa(risk.ID),
			f.escapeCSVField(string(risk.Severity)),
			f.escapeCSVField(risk.Category),
			f.escapeCSVField(risk.Title),
			f.escapeCSVField(risk.Explanation),
			f.escapeCSVField(risk.Snippet),
		}
		rows = append(rows, strings.Join(row, ","))
	}
	return strings.Join(rows, "\n"), nil
}

// escapeCSVField quotes a field when needed and neutralises spreadsheet formulas
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// sanitizeFormulaInjection prefixes cells that a spreadsheet would evaluate
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
