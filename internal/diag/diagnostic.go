// Package diag carries the position-aware error and warning shape shared by
// every compiler stage.
package diag

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Diagnostic is a positioned compiler message. Fatal diagnostics abort the
// compilation of the current document; the rest are warnings.
type Diagnostic struct {
	Message string `json:"message"`
	// Line and Column are 1-based; Column counts runes.
	Line   int `json:"line"`
	Column int `json:"column"`
	// Offset is the 0-based byte offset into the document.
	Offset int    `json:"offset"`
	Fatal  bool   `json:"fatal"`
	Source string `json:"source,omitempty"`
}

// Error implements error so fatal diagnostics can travel through error returns.
func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Locator converts byte offsets into line/column pairs.
type Locator struct {
	source     []byte
	lineStarts []int
}

// NewLocator indexes the line starts of source.
func NewLocator(source []byte) *Locator {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Locator{source: source, lineStarts: starts}
}

// Position returns the 1-based line and rune column of offset. Offsets past
// the end clamp to the end of the source.
func (l *Locator) Position(offset int) (line, column int) {
	if l == nil {
		return 0, 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(l.source) {
		offset = len(l.source)
	}
	idx := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	start := l.lineStarts[idx]
	return idx + 1, utf8.RuneCount(l.source[start:offset]) + 1
}

// At builds a diagnostic positioned at offset.
func (l *Locator) At(offset int, fatal bool, source, format string, args ...any) *Diagnostic {
	line, column := l.Position(offset)
	return &Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
		Offset:  offset,
		Fatal:   fatal,
		Source:  source,
	}
}

// Collector accumulates diagnostics for one document. It is owned by a single
// compilation and is not safe for concurrent use.
type Collector struct {
	locator *Locator
	items   []*Diagnostic
}

// NewCollector returns a collector positioned against source.
func NewCollector(source []byte) *Collector {
	return &Collector{locator: NewLocator(source)}
}

// Locator exposes the offset index used by the collector.
func (c *Collector) Locator() *Locator {
	return c.locator
}

// Fatalf records a fatal diagnostic at offset.
func (c *Collector) Fatalf(offset int, source, format string, args ...any) {
	c.items = append(c.items, c.locator.At(offset, true, source, format, args...))
}

// Warnf records a warning at offset.
func (c *Collector) Warnf(offset int, source, format string, args ...any) {
	c.items = append(c.items, c.locator.At(offset, false, source, format, args...))
}

// Add records an already built diagnostic.
func (c *Collector) Add(d *Diagnostic) {
	if d != nil {
		c.items = append(c.items, d)
	}
}

// Fatal returns the earliest fatal diagnostic by offset, or nil.
func (c *Collector) Fatal() *Diagnostic {
	var first *Diagnostic
	for _, item := range c.items {
		if !item.Fatal {
			continue
		}
		if first == nil || item.Offset < first.Offset {
			first = item
		}
	}
	return first
}

// Warnings returns copies of the non-fatal diagnostics in source order.
func (c *Collector) Warnings() []Diagnostic {
	out := make([]Diagnostic, 0, len(c.items))
	for _, item := range c.items {
		if item.Fatal {
			continue
		}
		out = append(out, *item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}
