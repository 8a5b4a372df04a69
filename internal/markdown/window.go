package markdown

import (
	"sort"

	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdx/internal/jsx"
)

// window is a contiguous copy of the lines ahead of a reader, so the jsx
// scanner can work on plain bytes. Offsets into buf map back to document
// offsets through the per-line segments.
type window struct {
	buf   []byte
	lines []windowLine
}

type windowLine struct {
	start   int
	segment text.Segment
}

// readWindow copies the lines from the reader's current position without
// consuming them. With stopAtBlank the copy ends before the first blank line
// after the current one.
func readWindow(reader text.Reader, stopAtBlank bool) *window {
	lineNo, pos := reader.Position()
	defer func() {
		reader.SetPosition(lineNo, pos)
		reader.Advance(0)
	}()

	w := &window{}
	for {
		line, segment := reader.PeekLine()
		if line == nil {
			break
		}
		if stopAtBlank && len(w.lines) > 0 && util.IsBlank(line) {
			break
		}
		w.lines = append(w.lines, windowLine{start: len(w.buf), segment: segment})
		w.buf = append(w.buf, line...)
		reader.AdvanceLine()
	}
	return w
}

func (w *window) lineIndex(v int) int {
	i := sort.Search(len(w.lines), func(i int) bool {
		return w.lines[i].start > v
	}) - 1
	if i < 0 {
		return 0
	}
	return i
}

// sourceOffset maps a window offset to a document offset.
func (w *window) sourceOffset(v int) int {
	if len(w.lines) == 0 {
		return 0
	}
	l := w.lines[w.lineIndex(v)]
	rel := v - l.start
	if rel < l.segment.Padding {
		return l.segment.Start
	}
	return l.segment.Start + rel - l.segment.Padding
}

// blankUntilEOL reports whether only whitespace follows v on its line.
func (w *window) blankUntilEOL(v int) bool {
	for i := v; i < len(w.buf); i++ {
		switch w.buf[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

// segments returns the document segments covering the window range
// [from, to), one per line.
func (w *window) segments(from, to int) []text.Segment {
	var out []text.Segment
	for i, l := range w.lines {
		lineEnd := len(w.buf)
		if i+1 < len(w.lines) {
			lineEnd = w.lines[i+1].start
		}
		start, end := max(from, l.start), min(to, lineEnd)
		if start >= end {
			continue
		}
		out = append(out, text.NewSegment(w.sourceOffset(start), w.sourceOffset(end-1)+1))
	}
	return out
}

// attributes rebases attribute offsets onto the document.
func (w *window) attributes(attrs []jsx.Attr) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, len(attrs))
	for i, attr := range attrs {
		attr.Offset = w.sourceOffset(attr.Offset)
		out[i] = attr
	}
	return out
}

// consume advances reader past n window bytes, crossing lines as needed.
func consume(reader text.Reader, n int) {
	for n > 0 {
		line, _ := reader.PeekLine()
		if line == nil {
			return
		}
		if n < len(line) {
			reader.Advance(n)
			return
		}
		n -= len(line)
		reader.AdvanceLine()
	}
}

// advanceToEOL moves reader to the end of its current line, leaving the
// newline for goldmark's line loop.
func advanceToEOL(reader text.Reader) {
	line, _ := reader.PeekLine()
	if n := len(line); n > 0 {
		if line[n-1] == '\n' {
			n--
		}
		reader.Advance(n)
	}
}
