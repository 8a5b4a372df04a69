package markdown

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdx/internal/lines"
)

type esmParser struct{}

// NewESMParser returns a block parser capturing top-level import/export
// statements up to the next blank line.
func NewESMParser() parser.BlockParser {
	return &esmParser{}
}

func (b *esmParser) Trigger() []byte {
	return []byte{'i', 'e'}
}

func (b *esmParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	if parent.Kind() != gast.KindDocument {
		return nil, parser.NoChildren
	}
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !lines.IsImportOrExport(string(line[pos:])) {
		return nil, parser.NoChildren
	}

	node := &ESM{Offset: segment.Start + pos - segment.Padding}
	first := text.NewSegment(node.Offset, segment.Stop)
	node.Lines().Append(first.TrimRightSpace(reader.Source()))
	advanceToEOL(reader)
	return node, parser.NoChildren
}

func (b *esmParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if line == nil || util.IsBlank(line) {
		return parser.Close
	}
	node.Lines().Append(segment.TrimRightSpace(reader.Source()))
	advanceToEOL(reader)
	return parser.Continue | parser.NoChildren
}

func (b *esmParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*ESM)
	segments := n.Lines()
	if segments.Len() == 0 {
		return
	}
	source := reader.Source()
	first, last := segments.At(0), segments.At(segments.Len()-1)
	n.Value = strings.TrimRight(string(source[first.Start:last.Stop]), "\r\n")
	n.Default = lines.IsDefaultExport(n.Value)
}

func (b *esmParser) CanInterruptParagraph() bool {
	return false
}

func (b *esmParser) CanAcceptIndentedLine() bool {
	return false
}
