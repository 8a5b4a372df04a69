package serialize

import (
	"strings"

	"github.com/goliatone/go-mdx/internal/estree"
	"github.com/goliatone/go-mdx/internal/mdast"
)

// children serialises nodes in order. parent is nil at the root.
func (s *serializer) children(nodes []mdast.Node, parent *mdast.Element) []estree.Expr {
	out := make([]estree.Expr, 0, len(nodes))
	for _, node := range nodes {
		if expr := s.node(node, parent); expr != nil {
			out = append(out, expr)
		}
	}
	return out
}

func (s *serializer) node(n mdast.Node, parent *mdast.Element) estree.Expr {
	switch v := n.(type) {
	case *mdast.Text:
		if v.Value == "" {
			return nil
		}
		return &estree.Template{Value: v.Value}
	case *mdast.Expression:
		return expressionChild(v.Value)
	case *mdast.Element:
		return s.element(v, parent)
	}
	return nil
}

func (s *serializer) element(el *mdast.Element, parent *mdast.Element) *estree.Element {
	out := &estree.Element{Tag: s.tag(el.Name)}

	props := &estree.Object{}
	for _, attr := range el.Attributes {
		s.attribute(props, el, attr)
	}
	if s.isComponent(el.Name) {
		props.Set("mdxType", estree.Str(el.Name))
	}
	if !el.Explicit && parent != nil && parent.Name != "" {
		props.Set("parentName", estree.Str(parent.Name))
	}
	if len(props.Properties) > 0 {
		out.Props = props
	}

	if s.opts.Development {
		out.Source = &estree.SourceLocation{
			FileName:     s.opts.FilePath,
			LineNumber:   el.Position.Line,
			ColumnNumber: el.Position.Column,
		}
	}

	out.Children = s.children(el.Children, el)
	return out
}

// tag resolves the first argument of an element call. Component names are
// identifier references resolved at render time, member names are spliced
// as written, fragments use the runtime's Fragment.
func (s *serializer) tag(name string) estree.Expr {
	switch {
	case name == "":
		return &estree.Member{Object: estree.Name(PragmaName), Property: "Fragment"}
	case strings.Contains(name, "."):
		return &estree.Raw{Code: name}
	case s.provided(name):
		return &estree.Member{Object: estree.Name(ComponentsParam), Property: name}
	case s.isComponent(name):
		if bound, ok := s.bound[name]; ok {
			return estree.Name(bound)
		}
		return estree.Name(name)
	}
	return estree.Str(name)
}

func (s *serializer) attribute(props *estree.Object, el *mdast.Element, attr mdast.Attribute) {
	switch attr.Kind {
	case mdast.AttrBoolean:
		props.Set(attr.Name, &estree.Bool{Value: true})
	case mdast.AttrString:
		if attr.Name == "style" && !s.isComponent(el.Name) {
			props.Set(attr.Name, styleObject(attr.Value))
			return
		}
		props.Set(attr.Name, estree.Str(attr.Value))
	case mdast.AttrExpression:
		value := strings.TrimSpace(attr.Value)
		if value == "" {
			s.warnf(attr.Position, "attribute `%s` has an empty expression, treating it as true", attr.Name)
			props.Set(attr.Name, &estree.Bool{Value: true})
			return
		}
		props.Set(attr.Name, rawExpression(value))
	case mdast.AttrSpread:
		props.Spread(rawExpression(strings.TrimSpace(attr.Value)))
	case mdast.AttrData:
		props.Set(attr.Name, dataExpr(attr.Data))
	}
}

// expressionChild splices an expression island as an element child.
func expressionChild(value string) estree.Expr {
	return rawExpression(strings.TrimSpace(value))
}

// rawExpression splices code verbatim. Code containing a line comment gets
// a trailing newline so the comment cannot swallow what follows.
func rawExpression(code string) *estree.Raw {
	if strings.Contains(code, "//") {
		return &estree.Raw{Code: "(" + code + "\n)"}
	}
	return &estree.Raw{Code: code}
}
