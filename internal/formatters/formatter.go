// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"legallens/internal/analysis"
	"legallens/internal/paths"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Date        time.Time                  // Report date; zero means now
	Severities  map[analysis.Severity]bool // Which severities to include; nil includes all
	Color       bool                       // Colour severity tags (console output only)
	NoColor     bool                       // Overrides Color
	IncludeText bool                       // Embed the document text in structured formats
}

// ReportDate returns the date to print on a report.
func (o FormatterOptions) ReportDate() time.Time {
	if o.Date.IsZero() {
		return time.Now()
	}
	return o.Date
}

// Includes reports whether findings of severity s pass the filter.
func (o FormatterOptions) Includes(s analysis.Severity) bool {
	return o.Severities == nil || o.Severities[s]
}

// FilterRisks returns the findings that pass the severity filter, in order.
func FilterRisks(risks []analysis.RiskFinding, options FormatterOptions) []analysis.RiskFinding {
	if options.Severities == nil {
		return risks
	}
	filtered := make([]analysis.RiskFinding, 0, len(risks))
	for _, risk := range risks {
		if options.Includes(risk.Severity) {
			filtered = append(filtered, risk)
		}
	}
	return filtered
}

// ParseSeverities turns "high,medium" or "all" into a filter. An empty
// string or "all" yields nil.
func ParseSeverities(list string) (map[analysis.Severity]bool, error) {
	list = strings.TrimSpace(list)
	if list == "" || strings.EqualFold(list, "all") {
		return nil, nil
	}
	out := make(map[analysis.Severity]bool)
	for _, part := range strings.Split(list, ",") {
		sev, ok := analysis.ParseSeverity(part)
		if !ok {
			return nil, fmt.Errorf("unknown severity %q (want high, medium, low or all)", strings.TrimSpace(part))
		}
		out[sev] = true
	}
	return out, nil
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the analysis result
	Format(result *analysis.Result, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt")
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formatter, exists := r.formatters[strings.ToLower(name)]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Export renders result with the named formatter.
func (r *Registry) Export(format string, result *analysis.Result, options FormatterOptions) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no analysis result to export")
	}
	formatter, exists := r.Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(r.List(), ", "))
	}
	return formatter.Format(result, options)
}

// ExportForDownload renders result and returns the MIME type and file name
// to save it under.
func (r *Registry) ExportForDownload(format string, result *analysis.Result, options FormatterOptions) (content, mimeType, filename string, err error) {
	content, err = r.Export(format, result, options)
	if err != nil {
		return "", "", "", err
	}
	info := r.FormatInfo(format)
	return content, info.MimeType, paths.ReportFileName(result.FileName, info.Extension), nil
}

// FormatInfo provides metadata about a formatter
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// FormatInfo returns metadata about a specific formatter
func (r *Registry) FormatInfo(name string) FormatInfo {
	formatter, exists := r.Get(name)
	if !exists {
		return FormatInfo{}
	}
	return FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
		MimeType:    MimeType(formatter.Name()),
	}
}

// MimeType maps a format name to its content type.
func MimeType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	case "yaml":
		return "application/x-yaml"
	case "text":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export renders result with a formatter from the default registry. It is
// shared by the CLI report flag and the terminal view.
func Export(format string, result *analysis.Result, options FormatterOptions) (string, error) {
	return DefaultRegistry.Export(format, result, options)
}

// ExportForDownload is Registry.ExportForDownload on the default registry.
func ExportForDownload(format string, result *analysis.Result, options FormatterOptions) (content, mimeType, filename string, err error) {
	return DefaultRegistry.ExportForDownload(format, result, options)
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formats = append(formats, DefaultRegistry.FormatInfo(name))
	}
	return formats
}
