package markdown

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-mdx/internal/jsx"
)

type flowExpressionParser struct{}

// NewFlowExpressionParser returns a block parser for a `{...}` island that
// starts a line and is followed only by whitespace. The island may span
// lines, blank ones included.
func NewFlowExpressionParser() parser.BlockParser {
	return &flowExpressionParser{}
}

func (b *flowExpressionParser) Trigger() []byte {
	return []byte{'{'}
}

func (b *flowExpressionParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}
	w := readWindow(reader, false)
	end, err := jsx.ScanExpression(w.buf, pos)
	if err != nil {
		reportScanError(pc, w, sourceExpression, err)
		return nil, parser.NoChildren
	}
	if !w.blankUntilEOL(end) {
		return nil, parser.NoChildren
	}

	node := &FlowExpression{
		Value:  string(w.buf[pos+1 : end-1]),
		Offset: w.sourceOffset(pos),
		end:    w.sourceOffset(end),
	}
	advanceToEOL(reader)
	return node, parser.NoChildren
}

func (b *flowExpressionParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*FlowExpression)
	line, segment := reader.PeekLine()
	if line == nil || segment.Start >= n.end {
		return parser.Close
	}
	advanceToEOL(reader)
	return parser.Continue | parser.NoChildren
}

func (b *flowExpressionParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {}

func (b *flowExpressionParser) CanInterruptParagraph() bool {
	return false
}

func (b *flowExpressionParser) CanAcceptIndentedLine() bool {
	return false
}
