package utils

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// counts are rendered with digit grouping, e.g. "12,345".
var printer = message.NewPrinter(language.English)

// ReportBuilder builds the plain-text summaries printed after bulk S3 operations
type ReportBuilder struct {
	lines     []string
	separator string
	width     int
}

// NewReportBuilder creates a new report builder
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{
		lines:     []string{},
		separator: "=",
		width:     40,
	}
}

// Header adds a header with separator
func (rb *ReportBuilder) Header(text string) *ReportBuilder {
	rb.lines = append(rb.lines, text)
	rb.lines = append(rb.lines, strings.Repeat(rb.separator, rb.width))
	return rb
}

// Section adds a section header
func (rb *ReportBuilder) Section(title string) *ReportBuilder {
	rb.lines = append(rb.lines, fmt.Sprintf("\n%s", title))
	return rb
}

// AddKeyValue adds a key-value pair
func (rb *ReportBuilder) AddKeyValue(key string, value interface{}) *ReportBuilder {
	switch value.(type) {
	case int, int32, int64:
		rb.lines = append(rb.lines, printer.Sprintf("%s: %d", key, value))
	default:
		rb.lines = append(rb.lines, fmt.Sprintf("%s: %v", key, value))
	}
	return rb
}

// AddCounts adds one indented "key: n" line per entry, keys sorted.
func (rb *ReportBuilder) AddCounts(counts map[string]int, level int) *ReportBuilder {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rb.AddIndented(printer.Sprintf("%s: %d", k, counts[k]), level)
	}
	return rb
}

// AddIndented adds an indented line
func (rb *ReportBuilder) AddIndented(text string, level int) *ReportBuilder {
	indent := strings.Repeat("  ", level)
	rb.lines = append(rb.lines, fmt.Sprintf("%s%s", indent, text))
	return rb
}

// AddSeparator adds a separator line
func (rb *ReportBuilder) AddSeparator() *ReportBuilder {
	rb.lines = append(rb.lines, strings.Repeat(rb.separator, rb.width))
	return rb
}

// Build returns the built report as a string
func (rb *ReportBuilder) Build() string {
	return strings.Join(rb.lines, "\n")
}
