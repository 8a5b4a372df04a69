package markdown

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-mdx/internal/jsx"
)

type jsxFlowParser struct{}

// NewJSXFlowParser returns a block parser for markup elements that start a
// line. An element closed before the next blank line, with nothing after its
// closing tag, is a leaf whose content is parsed as inline text. An opening
// tag alone on its line starts a container holding Markdown blocks up to the
// line with the matching closing tag.
func NewJSXFlowParser() parser.BlockParser {
	return &jsxFlowParser{}
}

func (b *jsxFlowParser) Trigger() []byte {
	return []byte{'<'}
}

func (b *jsxFlowParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}
	w := readWindow(reader, true)
	tag, ok, err := jsx.ScanTag(w.buf, pos)
	if err != nil {
		reportScanError(pc, w, sourceJSX, err)
		return nil, parser.NoChildren
	}
	if !ok || tag.Kind == jsx.TagClose {
		return nil, parser.NoChildren
	}

	node := &JSXFlow{
		Name:        tag.Name,
		Attrs:       w.attributes(tag.Attributes),
		SelfClosing: tag.Kind == jsx.TagSelfClosing,
		Offset:      w.sourceOffset(tag.Start),
	}

	switch {
	case tag.Kind == jsx.TagSelfClosing:
		if !w.blankUntilEOL(tag.End) {
			return nil, parser.NoChildren
		}
		node.end = w.sourceOffset(tag.End)
	case w.blankUntilEOL(tag.End):
		node.Container = true
		node.end = w.sourceOffset(tag.End)
	default:
		closing, found, err := jsx.FindClose(w.buf, tag)
		if err != nil {
			reportScanError(pc, w, sourceJSX, err)
			return nil, parser.NoChildren
		}
		if !found || !w.blankUntilEOL(closing.End) {
			return nil, parser.NoChildren
		}
		for _, segment := range w.segments(tag.End, closing.Start) {
			node.Lines().Append(segment)
		}
		node.end = w.sourceOffset(closing.End)
	}

	advanceToEOL(reader)
	if node.Container && w.lineIndex(tag.End-1) == 0 {
		return node, parser.HasChildren
	}
	return node, parser.NoChildren
}

func (b *jsxFlowParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*JSXFlow)
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	if segment.Start < n.end {
		advanceToEOL(reader)
		return parser.Continue | parser.NoChildren
	}
	if !n.Container {
		return parser.Close
	}
	if closesContainer(n, line, pc) {
		advanceToEOL(reader)
		n.closed = true
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (b *jsxFlowParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*JSXFlow)
	if !n.Container || n.closed {
		return
	}
	if collector := collectorFrom(pc); collector != nil {
		collector.Fatalf(n.Offset, sourceJSX, "unexpected end of content, expected a closing tag `%s` for `%s`",
			closingTag(n.Name), openingTag(n.Name))
	}
}

func (b *jsxFlowParser) CanInterruptParagraph() bool {
	return false
}

func (b *jsxFlowParser) CanAcceptIndentedLine() bool {
	return false
}

// closesContainer reports whether line is the closing tag of n. A deeper
// open container with the same name, or an open code block, owns the line
// instead.
func closesContainer(n *JSXFlow, line []byte, pc parser.Context) bool {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] != '<' {
		return false
	}
	tag, ok, err := jsx.ScanTag(line, i)
	if err != nil || !ok || tag.Kind != jsx.TagClose || tag.Name != n.Name {
		return false
	}
	for _, c := range line[tag.End:] {
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return false
		}
	}

	deeper := false
	for _, block := range pc.OpenedBlocks() {
		if block.Node == gast.Node(n) {
			deeper = true
			continue
		}
		if !deeper {
			continue
		}
		switch other := block.Node.(type) {
		case *JSXFlow:
			if other.Container && !other.closed && other.Name == n.Name {
				return false
			}
		case *gast.FencedCodeBlock:
			return false
		}
	}
	return true
}

func openingTag(name string) string {
	return "<" + name + ">"
}

func closingTag(name string) string {
	return "</" + name + ">"
}
