// Package merge turns the goldmark block/inline tree into the unified mdast
// tree. Markdown constructs become implicit elements, markup nodes become
// explicit ones, and inline tag markers are paired into nested elements.
package merge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/internal/jsx"
	"github.com/goliatone/go-mdx/internal/lines"
	"github.com/goliatone/go-mdx/internal/markdown"
	"github.com/goliatone/go-mdx/internal/mdast"
)

// Diagnostic sources used by the merger.
const (
	sourceJSX  = "jsx"
	sourceHTML = "html"
)

// Options tunes the conversion.
type Options struct {
	// HardWraps renders soft line breaks as `br` elements.
	HardWraps bool
	// Frontmatter, when set, becomes the first child of the root.
	Frontmatter *markdown.Frontmatter
}

// ErrNotDocument is returned when Merge is handed anything but a document.
var ErrNotDocument = errors.New("merge: expected a document node")

// Merge converts doc, whose segments point into source, into a unified tree.
// Syntax errors are returned as fatal *diag.Diagnostic values; the warnings
// slice holds non-fatal diagnostics.
func Merge(doc gast.Node, source []byte, opts Options) (*mdast.Root, []diag.Diagnostic, error) {
	if doc == nil || doc.Kind() != gast.KindDocument {
		return nil, nil, ErrNotDocument
	}

	m := &merger{
		source:    source,
		opts:      opts,
		collector: diag.NewCollector(source),
	}

	root := &mdast.Root{}
	if fm := opts.Frontmatter; fm != nil {
		root.Children = append(root.Children, &mdast.Frontmatter{
			Format:   fm.Format,
			Raw:      fm.Raw,
			Data:     fm.Data,
			Position: m.position(fm.Offset),
		})
	}

	children, err := m.blocks(doc)
	if err != nil {
		return nil, nil, err
	}
	root.Children = append(root.Children, children...)

	if err := checkRoot(root); err != nil {
		return nil, nil, err
	}
	return root, m.collector.Warnings(), nil
}

type merger struct {
	source    []byte
	opts      Options
	collector *diag.Collector
}

func (m *merger) position(offset int) mdast.Position {
	if offset < 0 {
		return mdast.Position{}
	}
	line, column := m.collector.Locator().Position(offset)
	return mdast.Position{Offset: offset, Line: line, Column: column}
}

func (m *merger) fatalf(offset int, source, format string, args ...any) error {
	return m.collector.Locator().At(offset, true, source, format, args...)
}

func (m *merger) element(name string, n gast.Node, children []mdast.Node, attrs ...mdast.Attribute) *mdast.Element {
	return &mdast.Element{
		Name:       name,
		Attributes: attrs,
		Children:   children,
		Position:   m.position(offsetOf(n)),
	}
}

func (m *merger) blocks(parent gast.Node) ([]mdast.Node, error) {
	var out []mdast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		nodes, err := m.block(n)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (m *merger) block(n gast.Node) ([]mdast.Node, error) {
	switch v := n.(type) {
	case *markdown.ESM:
		if parent := n.Parent(); parent == nil || parent.Kind() != gast.KindDocument {
			return nil, fmt.Errorf("merge: import/export statement at offset %d is not a direct child of the document", v.Offset)
		}
		firstLine, _, _ := strings.Cut(v.Value, "\n")
		kind := mdast.ESMImport
		if lines.Classify(firstLine) == lines.KindExport {
			kind = mdast.ESMExport
		}
		return []mdast.Node{&mdast.ESM{
			Value:    v.Value,
			Kind:     kind,
			Default:  v.Default,
			Position: m.position(v.Offset),
		}}, nil

	case *markdown.JSXFlow:
		return m.flowElement(v)

	case *markdown.FlowExpression:
		if jsx.IsEmptyExpression(v.Value) {
			return nil, nil
		}
		return []mdast.Node{&mdast.Expression{Value: v.Value, Position: m.position(v.Offset)}}, nil

	case *gast.Paragraph:
		children, err := m.inlines(v)
		if err != nil || blankInline(children) {
			return nil, err
		}
		return one(m.element("p", n, children)), nil

	case *gast.TextBlock:
		return m.inlines(v)

	case *gast.Heading:
		children, err := m.inlines(v)
		if err != nil {
			return nil, err
		}
		el := m.element("h"+strconv.Itoa(v.Level), n, children)
		if id, ok := v.AttributeString("id"); ok {
			if raw, isBytes := id.([]byte); isBytes && len(raw) > 0 {
				el.Attributes = append(el.Attributes, mdast.StringAttr("id", string(raw)))
			}
		}
		return one(el), nil

	case *gast.ThematicBreak:
		el := m.element("hr", n, nil)
		el.SelfClosing = true
		return one(el), nil

	case *gast.Blockquote:
		return m.container("blockquote", n)

	case *gast.List:
		children, err := m.blocks(v)
		if err != nil {
			return nil, err
		}
		if !v.IsOrdered() {
			return one(m.element("ul", n, children)), nil
		}
		el := m.element("ol", n, children)
		if v.Start != 1 {
			el.Attributes = append(el.Attributes, mdast.DataAttr("start", v.Start))
		}
		return one(el), nil

	case *gast.ListItem:
		return m.container("li", n)

	case *gast.FencedCodeBlock:
		var attrs []mdast.Attribute
		if lang := v.Language(m.source); len(lang) > 0 {
			attrs = append(attrs, mdast.StringAttr("className", "language-"+string(lang)))
			if v.Info != nil {
				info := strings.TrimSpace(string(v.Info.Segment.Value(m.source)))
				if meta := strings.TrimSpace(strings.TrimPrefix(info, string(lang))); meta != "" {
					attrs = append(attrs, mdast.StringAttr("metastring", meta))
				}
			}
		}
		return one(m.codeBlock(n, attrs)), nil

	case *gast.CodeBlock:
		return one(m.codeBlock(n, nil)), nil

	case *gast.HTMLBlock:
		return m.rawHTML(n, linesValue(n, m.source))

	case *east.Table:
		return m.table(v)

	case *east.DefinitionList:
		return m.container("dl", n)

	case *east.DefinitionTerm:
		children, err := m.inlines(v)
		if err != nil {
			return nil, err
		}
		return one(m.element("dt", n, children)), nil

	case *east.DefinitionDescription:
		return m.container("dd", n)

	case *east.FootnoteList:
		items, err := m.blocks(v)
		if err != nil {
			return nil, err
		}
		hr := m.element("hr", n, nil)
		hr.SelfClosing = true
		list := m.element("ol", n, items)
		return one(m.element("div", n, []mdast.Node{hr, list},
			mdast.StringAttr("className", "footnotes"),
			mdast.StringAttr("role", "doc-endnotes"),
		)), nil

	case *east.Footnote:
		children, err := m.blocks(v)
		if err != nil {
			return nil, err
		}
		return one(m.element("li", n, children, mdast.StringAttr("id", "fn:"+strconv.Itoa(v.Index)))), nil
	}

	return nil, fmt.Errorf("merge: unsupported block node %s", n.Kind().String())
}

func (m *merger) container(name string, n gast.Node) ([]mdast.Node, error) {
	children, err := m.blocks(n)
	if err != nil {
		return nil, err
	}
	return one(m.element(name, n, children)), nil
}

func (m *merger) flowElement(v *markdown.JSXFlow) ([]mdast.Node, error) {
	el := &mdast.Element{
		Name:        v.Name,
		Attributes:  m.attributes(v.Attrs),
		SelfClosing: v.SelfClosing,
		Explicit:    true,
		Position:    m.position(v.Offset),
	}
	if v.SelfClosing {
		return one(el), nil
	}

	var err error
	if v.Container {
		el.Children, err = m.blocks(v)
	} else {
		el.Children, err = m.inlines(v)
		el.Children = trimEdges(el.Children)
	}
	if err != nil {
		return nil, err
	}
	return one(el), nil
}

func (m *merger) codeBlock(n gast.Node, attrs []mdast.Attribute) *mdast.Element {
	value := linesValue(n, m.source)
	code := m.element("code", n, nil, attrs...)
	if value != "" {
		code.Children = []mdast.Node{&mdast.Text{Value: value, Position: code.Position}}
	}
	return m.element("pre", n, []mdast.Node{code})
}

func (m *merger) table(v *east.Table) ([]mdast.Node, error) {
	table := m.element("table", v, nil)
	var body *mdast.Element

	for row := v.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *east.TableHeader:
			tr, err := m.tableRow(row, "th")
			if err != nil {
				return nil, err
			}
			table.Children = append(table.Children, m.element("thead", row, []mdast.Node{tr}))
		case *east.TableRow:
			tr, err := m.tableRow(row, "td")
			if err != nil {
				return nil, err
			}
			if body == nil {
				body = m.element("tbody", row, nil)
				table.Children = append(table.Children, body)
			}
			body.Children = append(body.Children, tr)
		}
	}
	return one(table), nil
}

func (m *merger) tableRow(row gast.Node, cellName string) (*mdast.Element, error) {
	tr := m.element("tr", row, nil)
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cell, ok := c.(*east.TableCell)
		if !ok {
			continue
		}
		children, err := m.inlines(cell)
		if err != nil {
			return nil, err
		}
		el := m.element(cellName, cell, children)
		if cell.Alignment != east.AlignNone {
			el.Attributes = append(el.Attributes, mdast.StringAttr("align", cell.Alignment.String()))
		}
		tr.Children = append(tr.Children, el)
	}
	return tr, nil
}

func (m *merger) attributes(attrs []markdown.Attribute) []mdast.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]mdast.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		converted := mdast.Attribute{
			Name:     attr.Name,
			Value:    attr.Value,
			Position: m.position(attr.Offset),
		}
		switch attr.Kind {
		case jsx.AttrBoolean:
			converted.Kind = mdast.AttrBoolean
		case jsx.AttrString:
			converted.Kind = mdast.AttrString
		case jsx.AttrExpression:
			converted.Kind = mdast.AttrExpression
		case jsx.AttrSpread:
			converted.Kind = mdast.AttrSpread
		}
		out = append(out, converted)
	}
	return out
}

// rawHTML drops comments and keeps any other raw HTML as literal text.
func (m *merger) rawHTML(n gast.Node, value string) ([]mdast.Node, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.HasPrefix(trimmed, "<!--") {
		return nil, nil
	}
	offset := offsetOf(n)
	m.collector.Warnf(max(offset, 0), sourceHTML, "raw HTML `%s` is not markup, keeping it as text", truncate(trimmed, 40))
	return []mdast.Node{&mdast.Text{Value: value, Position: m.position(offset)}}, nil
}

// checkRoot asserts that statements and frontmatter only appear directly
// under the root.
func checkRoot(root *mdast.Root) error {
	for _, child := range root.Children {
		el, ok := child.(*mdast.Element)
		if !ok {
			continue
		}
		var nested mdast.Node
		mdast.Walk(el, func(n mdast.Node) bool {
			switch n.(type) {
			case *mdast.ESM, *mdast.Frontmatter:
				nested = n
			}
			return nested == nil
		})
		if nested != nil {
			return fmt.Errorf("merge: %T at offset %d is nested below the root", nested, nested.Pos().Offset)
		}
	}
	return nil
}

// offsetOf finds the first source offset covered by n, or -1.
func offsetOf(n gast.Node) int {
	switch v := n.(type) {
	case *gast.Text:
		return v.Segment.Start
	case *markdown.ESM:
		return v.Offset
	case *markdown.JSXFlow:
		return v.Offset
	case *markdown.JSXTextTag:
		return v.Offset
	case *markdown.FlowExpression:
		return v.Offset
	case *markdown.TextExpression:
		return v.Offset
	case *gast.RawHTML:
		if v.Segments.Len() > 0 {
			return v.Segments.At(0).Start
		}
	}
	if n.Type() == gast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if offset := offsetOf(c); offset >= 0 {
			return offset
		}
	}
	return -1
}

func linesValue(n gast.Node, source []byte) string {
	var b strings.Builder
	segments := n.Lines()
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		b.Write(segment.Value(source))
	}
	return b.String()
}

func one(n mdast.Node) []mdast.Node {
	return []mdast.Node{n}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
