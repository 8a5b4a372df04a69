package markdown

import (
	"fmt"
	"strings"

	gast "github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-mdx/internal/jsx"
)

// Attribute is a tag attribute with its offset resolved against the document.
type Attribute = jsx.Attr

var (
	_ gast.Node = (*ESM)(nil)
	_ gast.Node = (*JSXFlow)(nil)
	_ gast.Node = (*JSXTextTag)(nil)
	_ gast.Node = (*FlowExpression)(nil)
	_ gast.Node = (*TextExpression)(nil)
)

// ESM is a top-level import/export statement kept verbatim.
type ESM struct {
	gast.BaseBlock
	Value   string
	Default bool
	Offset  int
}

// KindESM is the node kind of ESM.
var KindESM = gast.NewNodeKind("ESM")

func (n *ESM) Kind() gast.NodeKind { return KindESM }

// IsRaw keeps goldmark from inline parsing the statement.
func (n *ESM) IsRaw() bool { return true }

func (n *ESM) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{
		"Value":   fmt.Sprintf("%q", n.Value),
		"Default": fmt.Sprintf("%v", n.Default),
	}, nil)
}

// JSXFlow is a markup element that occupies whole lines. Leaf elements keep
// their inline content in Lines(); container elements hold block children.
type JSXFlow struct {
	gast.BaseBlock
	Name        string
	Attrs       []Attribute
	SelfClosing bool
	Container   bool
	Offset      int

	// end is the first offset after the construct (leaf) or after the opening
	// tag (container).
	end    int
	closed bool
}

// KindJSXFlow is the node kind of JSXFlow.
var KindJSXFlow = gast.NewNodeKind("JSXFlow")

func (n *JSXFlow) Kind() gast.NodeKind { return KindJSXFlow }

func (n *JSXFlow) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{
		"Name":        fmt.Sprintf("%q", n.Name),
		"Attributes":  dumpAttributes(n.Attrs),
		"SelfClosing": fmt.Sprintf("%v", n.SelfClosing),
		"Container":   fmt.Sprintf("%v", n.Container),
	}, nil)
}

// JSXTextTag marks an opening, closing or self-closing tag found inside
// running text. The merger pairs markers into elements.
type JSXTextTag struct {
	gast.BaseInline
	Name    string
	Attrs   []Attribute
	TagKind jsx.TagKind
	Offset  int
}

// KindJSXTextTag is the node kind of JSXTextTag.
var KindJSXTextTag = gast.NewNodeKind("JSXTextTag")

func (n *JSXTextTag) Kind() gast.NodeKind { return KindJSXTextTag }

func (n *JSXTextTag) Dump(source []byte, level int) {
	kind := "open"
	switch n.TagKind {
	case jsx.TagClose:
		kind = "close"
	case jsx.TagSelfClosing:
		kind = "self-closing"
	}
	gast.DumpHelper(n, source, level, map[string]string{
		"Name":       fmt.Sprintf("%q", n.Name),
		"TagKind":    kind,
		"Attributes": dumpAttributes(n.Attrs),
	}, nil)
}

// FlowExpression is an expression island that occupies whole lines.
type FlowExpression struct {
	gast.BaseBlock
	Value  string
	Offset int

	end int
}

// KindFlowExpression is the node kind of FlowExpression.
var KindFlowExpression = gast.NewNodeKind("FlowExpression")

func (n *FlowExpression) Kind() gast.NodeKind { return KindFlowExpression }

func (n *FlowExpression) IsRaw() bool { return true }

func (n *FlowExpression) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": fmt.Sprintf("%q", n.Value)}, nil)
}

// TextExpression is an expression island inside running text.
type TextExpression struct {
	gast.BaseInline
	Value  string
	Offset int
}

// KindTextExpression is the node kind of TextExpression.
var KindTextExpression = gast.NewNodeKind("TextExpression")

func (n *TextExpression) Kind() gast.NodeKind { return KindTextExpression }

func (n *TextExpression) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": fmt.Sprintf("%q", n.Value)}, nil)
}

func dumpAttributes(attrs []Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		switch attr.Kind {
		case jsx.AttrBoolean:
			parts = append(parts, attr.Name)
		case jsx.AttrString:
			parts = append(parts, fmt.Sprintf("%s=%q", attr.Name, attr.Value))
		case jsx.AttrExpression:
			parts = append(parts, fmt.Sprintf("%s={%s}", attr.Name, attr.Value))
		case jsx.AttrSpread:
			parts = append(parts, fmt.Sprintf("{...%s}", attr.Value))
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
