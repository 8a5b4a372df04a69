package merge

import (
	"bytes"
	"strconv"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-mdx/internal/jsx"
	"github.com/goliatone/go-mdx/internal/markdown"
	"github.com/goliatone/go-mdx/internal/mdast"
)

// inlineItem is either converted nodes or a tag marker awaiting its pair.
type inlineItem struct {
	nodes  []mdast.Node
	marker *markdown.JSXTextTag
}

type frame struct {
	el     *mdast.Element
	marker *markdown.JSXTextTag
}

// inlines converts the inline children of parent, pairing tag markers within
// this sibling list.
func (m *merger) inlines(parent gast.Node) ([]mdast.Node, error) {
	var items []inlineItem
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if tag, ok := n.(*markdown.JSXTextTag); ok && tag.TagKind != jsx.TagSelfClosing {
			items = append(items, inlineItem{marker: tag})
			continue
		}
		nodes, err := m.inline(n)
		if err != nil {
			return nil, err
		}
		items = append(items, inlineItem{nodes: nodes})
	}
	return m.nest(items)
}

func (m *merger) nest(items []inlineItem) ([]mdast.Node, error) {
	stack := []*frame{{el: &mdast.Element{}}}

	for _, item := range items {
		top := stack[len(stack)-1]
		if item.marker == nil {
			for _, n := range item.nodes {
				top.el.Children = appendNode(top.el.Children, n)
			}
			continue
		}

		tag := item.marker
		if tag.TagKind == jsx.TagOpen {
			stack = append(stack, &frame{
				el: &mdast.Element{
					Name:       tag.Name,
					Attributes: m.attributes(tag.Attrs),
					Explicit:   true,
					Position:   m.position(tag.Offset),
				},
				marker: tag,
			})
			continue
		}

		if len(stack) == 1 || !openIn(stack, tag.Name) {
			return nil, m.fatalf(tag.Offset, sourceJSX, "unexpected closing tag `%s`, no element `%s` is open",
				closingTag(tag.Name), openingTag(tag.Name))
		}
		if top.marker.Name != tag.Name {
			return nil, m.fatalf(top.marker.Offset, sourceJSX, "unexpected closing tag `%s`, expected a closing tag `%s` for `%s`",
				closingTag(tag.Name), closingTag(top.marker.Name), openingTag(top.marker.Name))
		}
		stack = stack[:len(stack)-1]
		parent := stack[len(stack)-1]
		parent.el.Children = append(parent.el.Children, top.el)
	}

	if len(stack) > 1 {
		open := stack[1].marker
		return nil, m.fatalf(open.Offset, sourceJSX, "unexpected end of text, expected a closing tag `%s` for `%s`",
			closingTag(open.Name), openingTag(open.Name))
	}
	return stack[0].el.Children, nil
}

func (m *merger) inline(n gast.Node) ([]mdast.Node, error) {
	switch v := n.(type) {
	case *gast.Text:
		return m.text(v), nil

	case *gast.String:
		value := string(v.Value)
		if !v.IsRaw() && !v.IsCode() {
			value = resolveText(v.Value)
		}
		return []mdast.Node{&mdast.Text{Value: value, Position: m.position(offsetOf(n))}}, nil

	case *gast.Emphasis:
		name := "em"
		if v.Level >= 2 {
			name = "strong"
		}
		return m.inlineElement(name, n)

	case *gast.CodeSpan:
		value := codeSpanValue(v, m.source)
		code := m.element("inlineCode", n, nil)
		if value != "" {
			code.Children = []mdast.Node{&mdast.Text{Value: value, Position: code.Position}}
		}
		return one(code), nil

	case *gast.Link:
		attrs := []mdast.Attribute{mdast.StringAttr("href", string(util.URLEscape(v.Destination, true)))}
		if v.Title != nil {
			attrs = append(attrs, mdast.StringAttr("title", resolveText(v.Title)))
		}
		return m.inlineElement("a", n, attrs...)

	case *gast.Image:
		children, err := m.inlines(v)
		if err != nil {
			return nil, err
		}
		alt := &mdast.Element{Children: children}
		attrs := []mdast.Attribute{
			mdast.StringAttr("src", string(util.URLEscape(v.Destination, true))),
			mdast.StringAttr("alt", mdast.TextContent(alt)),
		}
		if v.Title != nil {
			attrs = append(attrs, mdast.StringAttr("title", resolveText(v.Title)))
		}
		el := m.element("img", n, nil, attrs...)
		el.SelfClosing = true
		return one(el), nil

	case *gast.AutoLink:
		url := v.URL(m.source)
		if v.AutoLinkType == gast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
			url = append([]byte("mailto:"), url...)
		}
		label := &mdast.Text{Value: string(v.Label(m.source)), Position: m.position(offsetOf(n))}
		return one(m.element("a", n, []mdast.Node{label},
			mdast.StringAttr("href", string(util.URLEscape(url, false))))), nil

	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			segment := v.Segments.At(i)
			b.Write(segment.Value(m.source))
		}
		return m.rawHTML(n, b.String())

	case *markdown.JSXTextTag:
		return one(&mdast.Element{
			Name:        v.Name,
			Attributes:  m.attributes(v.Attrs),
			SelfClosing: true,
			Explicit:    true,
			Position:    m.position(v.Offset),
		}), nil

	case *markdown.TextExpression:
		if jsx.IsEmptyExpression(v.Value) {
			return nil, nil
		}
		return one(&mdast.Expression{Value: v.Value, Position: m.position(v.Offset)}), nil

	case *east.Strikethrough:
		return m.inlineElement("del", n)

	case *east.TaskCheckBox:
		el := m.element("input", n, nil,
			mdast.StringAttr("type", "checkbox"),
			mdast.DataAttr("checked", v.IsChecked),
			mdast.DataAttr("disabled", true),
		)
		el.SelfClosing = true
		return []mdast.Node{el, &mdast.Text{Value: " ", Position: el.Position}}, nil

	case *east.FootnoteLink:
		index := strconv.Itoa(v.Index)
		id := "fnref:" + index
		if v.RefIndex > 0 {
			id = "fnref" + strconv.Itoa(v.RefIndex) + ":" + index
		}
		link := m.element("a", n, []mdast.Node{&mdast.Text{Value: index}},
			mdast.StringAttr("href", "#fn:"+index),
			mdast.StringAttr("className", "footnote-ref"),
			mdast.StringAttr("role", "doc-noteref"),
		)
		return one(m.element("sup", n, []mdast.Node{link}, mdast.StringAttr("id", id))), nil

	case *east.FootnoteBacklink:
		index := strconv.Itoa(v.Index)
		href := "#fnref:" + index
		if v.RefIndex > 0 {
			href = "#fnref" + strconv.Itoa(v.RefIndex) + ":" + index
		}
		return one(m.element("a", n, []mdast.Node{&mdast.Text{Value: "↩︎"}},
			mdast.StringAttr("href", href),
			mdast.StringAttr("className", "footnote-backref"),
			mdast.StringAttr("role", "doc-backlink"),
		)), nil
	}

	return nil, unsupportedInline(n)
}

func (m *merger) inlineElement(name string, n gast.Node, attrs ...mdast.Attribute) ([]mdast.Node, error) {
	children, err := m.inlines(n)
	if err != nil {
		return nil, err
	}
	return one(m.element(name, n, children, attrs...)), nil
}

// text converts a goldmark text node; line breaks become "\n" or `br`.
func (m *merger) text(v *gast.Text) []mdast.Node {
	segment := v.Segment
	raw := segment.Value(m.source)
	value := string(raw)
	if !v.IsRaw() {
		value = resolveText(raw)
	}

	pos := m.position(segment.Start)
	out := []mdast.Node{&mdast.Text{Value: value, Position: pos}}
	switch {
	case v.HardLineBreak(), v.SoftLineBreak() && m.opts.HardWraps:
		br := &mdast.Element{Name: "br", SelfClosing: true, Position: m.position(segment.Stop)}
		out = append(out, br, &mdast.Text{Value: "\n", Position: br.Position})
	case v.SoftLineBreak():
		out[0].(*mdast.Text).Value += "\n"
	}
	return out
}

// codeSpanValue mirrors goldmark's code span rendering: segments are raw and
// a line ending inside the span becomes a space.
func codeSpanValue(n *gast.CodeSpan, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gast.Text:
			segment := t.Segment
			value := segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				b.Write(value[:len(value)-1])
				b.WriteByte(' ')
				continue
			}
			b.Write(value)
		case *gast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

// appendNode appends n, coalescing adjacent text and dropping empty text.
func appendNode(nodes []mdast.Node, n mdast.Node) []mdast.Node {
	text, ok := n.(*mdast.Text)
	if !ok {
		return append(nodes, n)
	}
	if text.Value == "" {
		return nodes
	}
	if len(nodes) > 0 {
		if prev, isText := nodes[len(nodes)-1].(*mdast.Text); isText {
			nodes[len(nodes)-1] = &mdast.Text{Value: prev.Value + text.Value, Position: prev.Position}
			return nodes
		}
	}
	return append(nodes, text)
}

// trimEdges strips the whitespace that separates a leaf element's content
// from its tags.
func trimEdges(nodes []mdast.Node) []mdast.Node {
	if len(nodes) == 0 {
		return nodes
	}
	if first, ok := nodes[0].(*mdast.Text); ok {
		trimmed := strings.TrimLeft(first.Value, " \t\r\n")
		if trimmed == "" {
			nodes = nodes[1:]
		} else {
			nodes[0] = &mdast.Text{Value: trimmed, Position: first.Position}
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	last := len(nodes) - 1
	if text, ok := nodes[last].(*mdast.Text); ok {
		trimmed := strings.TrimRight(text.Value, " \t\r\n")
		if trimmed == "" {
			nodes = nodes[:last]
		} else {
			nodes[last] = &mdast.Text{Value: trimmed, Position: text.Position}
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes
}

// blankInline reports whether nodes hold nothing but whitespace text.
func blankInline(nodes []mdast.Node) bool {
	for _, n := range nodes {
		text, ok := n.(*mdast.Text)
		if !ok || strings.TrimSpace(text.Value) != "" {
			return false
		}
	}
	return true
}

func openIn(stack []*frame, name string) bool {
	for _, f := range stack[1:] {
		if f.marker.Name == name {
			return true
		}
	}
	return false
}

func openingTag(name string) string {
	return "<" + name + ">"
}

func closingTag(name string) string {
	return "</" + name + ">"
}
