// Package mdast defines the unified document tree: Markdown constructs and
// explicit markup collapse into the same Element shape, and import/export
// statements and frontmatter sit directly under the Root.
package mdast

// Node is any node of the unified tree.
type Node interface {
	node()
	Pos() Position
}

// Position locates the start of a node in the source document.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Root is the single top-level node.
type Root struct {
	Children []Node
}

func (*Root) node() {}

func (*Root) Pos() Position { return Position{Line: 1, Column: 1} }

// Element is a markup element. Explicit is true when the element was written
// with tag syntax and false when it came from a Markdown construct. An empty
// Name is a fragment.
type Element struct {
	Name        string
	Attributes  []Attribute
	Children    []Node
	SelfClosing bool
	Explicit    bool
	Position    Position
}

func (*Element) node() {}

func (e *Element) Pos() Position { return e.Position }

// Text is literal text with entities and escapes already resolved.
type Text struct {
	Value    string
	Position Position
}

func (*Text) node() {}

func (t *Text) Pos() Position { return t.Position }

// Expression is an opaque expression island, spliced verbatim into output.
type Expression struct {
	Value    string
	Position Position
}

func (*Expression) node() {}

func (e *Expression) Pos() Position { return e.Position }

// ESMKind tells imports from exports.
type ESMKind int

const (
	ESMImport ESMKind = iota
	ESMExport
)

func (k ESMKind) String() string {
	if k == ESMExport {
		return "export"
	}
	return "import"
}

// ESM is a verbatim import or export statement.
type ESM struct {
	Value    string
	Kind     ESMKind
	Default  bool
	Position Position
}

func (*ESM) node() {}

func (e *ESM) Pos() Position { return e.Position }

// Frontmatter is the decoded metadata block of the document.
type Frontmatter struct {
	Format   string
	Raw      string
	Data     map[string]any
	Position Position
}

func (*Frontmatter) node() {}

func (f *Frontmatter) Pos() Position { return f.Position }

// AttrKind is the value form of an attribute.
type AttrKind int

const (
	// AttrBoolean is a bare attribute name, true by presence.
	AttrBoolean AttrKind = iota
	// AttrString carries a literal string Value.
	AttrString
	// AttrExpression carries the raw expression source in Value.
	AttrExpression
	// AttrSpread spreads the expression in Value into the props.
	AttrSpread
	// AttrData carries a structured Go value in Data (numbers, booleans,
	// maps, slices) serialised as a literal.
	AttrData
)

// Attribute is one element attribute. Order and duplicates are preserved.
type Attribute struct {
	Name     string
	Kind     AttrKind
	Value    string
	Data     any
	Position Position
}

// StringAttr builds a literal string attribute.
func StringAttr(name, value string) Attribute {
	return Attribute{Name: name, Kind: AttrString, Value: value}
}

// DataAttr builds a structured attribute.
func DataAttr(name string, value any) Attribute {
	return Attribute{Name: name, Kind: AttrData, Data: value}
}

// Attr returns the first attribute named name.
func (e *Element) Attr(name string) (Attribute, bool) {
	for _, attr := range e.Attributes {
		if attr.Name == name && attr.Kind != AttrSpread {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Root:
		for _, child := range v.Children {
			Walk(child, fn)
		}
	case *Element:
		for _, child := range v.Children {
			Walk(child, fn)
		}
	}
}

// TextContent concatenates the text below n, ignoring expressions.
func TextContent(n Node) string {
	var out []byte
	Walk(n, func(node Node) bool {
		if t, ok := node.(*Text); ok {
			out = append(out, t.Value...)
		}
		return true
	})
	return string(out)
}
