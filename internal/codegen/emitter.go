package codegen

import "strings"

const indentWith = "  "

// emittedLine is one output line made of parts.
type emittedLine struct {
	parts  []string
	indent int
}

// emitter accumulates output lines with indentation. Parts may contain
// newlines (template literals, verbatim statements); those are kept as is
// and never re-indented.
type emitter struct {
	lines  []*emittedLine
	indent int
}

func newEmitter() *emitter {
	return &emitter{lines: []*emittedLine{{}}}
}

func (e *emitter) currentLine() *emittedLine {
	return e.lines[len(e.lines)-1]
}

func (e *emitter) print(part string) {
	if part == "" {
		return
	}
	line := e.currentLine()
	line.parts = append(line.parts, part)
}

func (e *emitter) println(part string) {
	e.print(part)
	e.lines = append(e.lines, &emittedLine{indent: e.indent})
}

func (e *emitter) lineIsEmpty() bool {
	return len(e.currentLine().parts) == 0
}

func (e *emitter) incIndent() {
	e.indent++
	if e.lineIsEmpty() {
		e.currentLine().indent = e.indent
	}
}

func (e *emitter) decIndent() {
	e.indent--
	if e.lineIsEmpty() {
		e.currentLine().indent = e.indent
	}
}

func (e *emitter) toSource() string {
	lines := e.lines
	if len(lines) > 0 && len(lines[len(lines)-1].parts) == 0 {
		lines = lines[:len(lines)-1]
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line.parts) == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, strings.Repeat(indentWith, line.indent)+strings.Join(line.parts, ""))
	}
	return strings.Join(out, "\n")
}
