package markdown

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-mdx/internal/jsx"
)

type jsxTextParser struct{}

// NewJSXTextParser returns an inline parser emitting a JSXTextTag marker for
// every tag found in running text. Text that does not follow the tag grammar
// is left to the autolink, raw HTML and text parsers.
func NewJSXTextParser() parser.InlineParser {
	return &jsxTextParser{}
}

func (p *jsxTextParser) Trigger() []byte {
	return []byte{'<'}
}

func (p *jsxTextParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	w := readWindow(block, false)
	tag, ok, err := jsx.ScanTag(w.buf, 0)
	if err != nil {
		reportScanError(pc, w, sourceJSX, err)
		return nil
	}
	if !ok {
		return nil
	}
	consume(block, tag.End)
	return &JSXTextTag{
		Name:    tag.Name,
		Attrs:   w.attributes(tag.Attributes),
		TagKind: tag.Kind,
		Offset:  w.sourceOffset(tag.Start),
	}
}

type textExpressionParser struct{}

// NewTextExpressionParser returns an inline parser for `{...}` islands in
// running text.
func NewTextExpressionParser() parser.InlineParser {
	return &textExpressionParser{}
}

func (p *textExpressionParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *textExpressionParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	w := readWindow(block, false)
	end, err := jsx.ScanExpression(w.buf, 0)
	if err != nil {
		reportScanError(pc, w, sourceExpression, err)
		return nil
	}
	consume(block, end)
	return &TextExpression{
		Value:  string(w.buf[1 : end-1]),
		Offset: w.sourceOffset(0),
	}
}
