package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-mdx/internal/estree"
	"github.com/goliatone/go-mdx/internal/serialize"
)

var (
	// ErrNotStatic is returned for programs that need a JavaScript engine:
	// expression islands, custom layouts and spread expressions.
	ErrNotStatic = errors.New("runtime: program is not static")
	// ErrComponentMissing is returned when a component reference resolves
	// to nothing at render time.
	ErrComponentMissing = errors.New("runtime: component not provided")
	// ErrNoContent is returned when the program has no content element.
	ErrNoContent = errors.New("runtime: program has no content element")
)

// Option configures a render.
type Option func(*renderer)

// WithComponents sets the components prop passed to the document.
func WithComponents(components Components) Option {
	return func(r *renderer) {
		r.resolver.Override = components
	}
}

// WithProvider renders inside the given provider stack.
func WithProvider(provider *Provider) Option {
	return func(r *renderer) {
		r.resolver.Provider = provider
	}
}

// WithDefaults replaces DefaultComponents.
func WithDefaults(defaults Components) Option {
	return func(r *renderer) {
		r.resolver.Defaults = defaults
	}
}

// WithProps sets the props passed to the document, which reach the wrapper.
func WithProps(props Props) Option {
	return func(r *renderer) {
		r.props = maps.Clone(props)
	}
}

type renderer struct {
	resolver Resolver
	props    Props
	// scope maps top-level const names to their evaluated values.
	scope map[string]any
	// shortcodes maps bindings produced by makeShortcode to component names.
	shortcodes map[string]string
	layout     string
}

// RenderHTML renders a compiled program to HTML. Only static programs are
// supported: every child and property must be a literal.
func RenderHTML(program *estree.Program, opts ...Option) (string, error) {
	nodes, err := Render(program, opts...)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Render evaluates a compiled program into HTML nodes.
func Render(program *estree.Program, opts ...Option) ([]*html.Node, error) {
	r := &renderer{
		resolver:   Resolver{Defaults: DefaultComponents()},
		scope:      map[string]any{},
		shortcodes: map[string]string{},
		layout:     WrapperKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if program == nil {
		return nil, ErrNoContent
	}

	root, err := r.declarations(program.Body)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNoContent
	}
	return r.element(root)
}

// declarations evaluates top-level consts and returns the content element.
func (r *renderer) declarations(body []estree.Statement) (*estree.Element, error) {
	var root *estree.Element
	for _, stmt := range body {
		switch v := stmt.(type) {
		case *estree.Const:
			if err := r.declare(v); err != nil {
				return nil, err
			}
		case *estree.Function:
			if v.Name != serialize.ContentName {
				continue
			}
			for _, inner := range v.Body {
				if ret, ok := inner.(*estree.Return); ok {
					if el, ok := ret.Value.(*estree.Element); ok {
						root = el
					}
				}
			}
		case *estree.ExprStmt:
			if el, ok := v.Expr.(*estree.Element); ok {
				root = el
			}
		}
	}
	return root, nil
}

func (r *renderer) declare(c *estree.Const) error {
	switch c.Name {
	case serialize.LayoutName:
		s, ok := c.Value.(*estree.String)
		if !ok {
			return fmt.Errorf("%w: custom layout", ErrNotStatic)
		}
		r.layout = s.Value
		return nil
	case serialize.ShortcodeFactory:
		return nil
	}
	if call, ok := c.Value.(*estree.Call); ok {
		if callee, ok := call.Callee.(*estree.Ident); ok && callee.Name == serialize.ShortcodeFactory && len(call.Args) == 1 {
			if name, ok := call.Args[0].(*estree.String); ok {
				r.shortcodes[c.Name] = name.Value
				return nil
			}
		}
	}
	// Unevaluable declarations only fail a render when referenced.
	if value, err := r.value(c.Value); err == nil {
		r.scope[c.Name] = value
	}
	return nil
}

type tagKind int

const (
	tagIntrinsic tagKind = iota
	tagComponent
	tagFragment
	tagLayout
)

func (r *renderer) tag(expr estree.Expr) (string, tagKind, error) {
	switch v := expr.(type) {
	case *estree.String:
		return v.Value, tagIntrinsic, nil
	case *estree.Member:
		if obj, ok := v.Object.(*estree.Ident); ok && obj.Name == serialize.PragmaName && v.Property == "Fragment" {
			return "", tagFragment, nil
		}
		if obj, ok := v.Object.(*estree.Ident); ok && obj.Name == serialize.ComponentsParam {
			return v.Property, tagComponent, nil
		}
		return "", 0, fmt.Errorf("%w: member tag %s", ErrNotStatic, v.Property)
	case *estree.Raw:
		return v.Code, tagComponent, nil
	case *estree.Ident:
		if v.Name == serialize.LayoutName {
			return r.layout, tagLayout, nil
		}
		if name, ok := r.shortcodes[v.Name]; ok {
			return name, tagComponent, nil
		}
		return v.Name, tagComponent, nil
	}
	return "", 0, fmt.Errorf("%w: tag %T", ErrNotStatic, expr)
}

func (r *renderer) element(el *estree.Element) ([]*html.Node, error) {
	name, kind, err := r.tag(el.Tag)
	if err != nil {
		return nil, err
	}
	props, parentName, err := r.evalProps(el.Props)
	if err != nil {
		return nil, err
	}
	children, err := r.children(el.Children)
	if err != nil {
		return nil, err
	}

	switch kind {
	case tagFragment:
		return children, nil
	case tagLayout:
		if comp := r.resolver.Resolve(name, ""); comp != nil {
			return comp.Render(props, children)
		}
		return children, nil
	}

	if comp := r.resolver.Resolve(name, parentName); comp != nil {
		return comp.Render(props, children)
	}
	if kind == tagComponent {
		return nil, fmt.Errorf("%w: %s", ErrComponentMissing, name)
	}
	return []*html.Node{intrinsic(name, props, children)}, nil
}

func (r *renderer) children(exprs []estree.Expr) ([]*html.Node, error) {
	var out []*html.Node
	for _, expr := range exprs {
		switch v := expr.(type) {
		case *estree.Element:
			nodes, err := r.element(v)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		case *estree.Template:
			out = appendText(out, v.Value)
		case *estree.String:
			out = appendText(out, v.Value)
		case *estree.Number:
			out = appendText(out, formatNumber(v.Value))
		case *estree.Null, *estree.Bool:
		default:
			return nil, fmt.Errorf("%w: child %T", ErrNotStatic, expr)
		}
	}
	return out, nil
}

func appendText(nodes []*html.Node, text string) []*html.Node {
	if text == "" {
		return nodes
	}
	return append(nodes, &html.Node{Type: html.TextNode, Data: text})
}

// evalProps evaluates an element's property object, removing compiler markers.
func (r *renderer) evalProps(obj *estree.Object) (Props, string, error) {
	props := Props{}
	if obj == nil {
		return props, "", nil
	}
	for _, p := range obj.Properties {
		switch {
		case p.Spread:
			spread, err := r.spread(p.Value)
			if err != nil {
				return nil, "", err
			}
			maps.Copy(props, spread)
		case p.Key == "components":
		case p.Shorthand:
			if value, ok := r.scope[p.Key]; ok {
				props[p.Key] = value
			}
		default:
			value, err := r.value(p.Value)
			if err != nil {
				return nil, "", err
			}
			props[p.Key] = value
		}
	}

	parentName, _ := props["parentName"].(string)
	delete(props, "parentName")
	delete(props, "mdxType")
	return props, parentName, nil
}

func (r *renderer) spread(expr estree.Expr) (Props, error) {
	if id, ok := expr.(*estree.Ident); ok {
		switch id.Name {
		case "props":
			return r.props, nil
		default:
			if m, ok := r.scope[id.Name].(map[string]any); ok {
				return m, nil
			}
		}
	}
	if obj, ok := expr.(*estree.Object); ok {
		props, _, err := r.evalProps(obj)
		return props, err
	}
	return nil, fmt.Errorf("%w: spread", ErrNotStatic)
}

// value evaluates a literal expression.
func (r *renderer) value(expr estree.Expr) (any, error) {
	switch v := expr.(type) {
	case *estree.String:
		return v.Value, nil
	case *estree.Template:
		return v.Value, nil
	case *estree.Number:
		return v.Value, nil
	case *estree.Bool:
		return v.Value, nil
	case *estree.Null, nil:
		return nil, nil
	case *estree.Ident:
		if value, ok := r.scope[v.Name]; ok {
			return value, nil
		}
	case *estree.Array:
		out := make([]any, 0, len(v.Elements))
		for _, el := range v.Elements {
			item, err := r.value(el)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case *estree.Object:
		out := map[string]any{}
		for _, p := range v.Properties {
			if p.Spread {
				spread, err := r.spread(p.Value)
				if err != nil {
					return nil, err
				}
				maps.Copy(out, spread)
				continue
			}
			if p.Shorthand {
				// Bindings from passthrough exports are not evaluated.
				if value, ok := r.scope[p.Key]; ok {
					out[p.Key] = value
				}
				continue
			}
			item, err := r.value(p.Value)
			if err != nil {
				return nil, err
			}
			out[p.Key] = item
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: value %T", ErrNotStatic, expr)
}

// intrinsic builds an HTML element from evaluated props.
func intrinsic(name string, props Props, children []*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(name))}
	for _, key := range slices.Sorted(maps.Keys(props)) {
		if key == "children" {
			continue
		}
		value, ok := attributeValue(key, props[key])
		if !ok {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: attributeName(key), Val: value})
	}
	for _, child := range children {
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		n.AppendChild(child)
	}
	return n
}

func attributeName(key string) string {
	switch key {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return key
}

func attributeValue(key string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		return "", v
	case string:
		return v, true
	case float64:
		return formatNumber(v), true
	case map[string]any:
		if key == "style" {
			return styleString(v), true
		}
	}
	return fmt.Sprint(value), true
}

func styleString(style map[string]any) string {
	parts := make([]string, 0, len(style))
	for _, key := range slices.Sorted(maps.Keys(style)) {
		value, ok := attributeValue("", style[key])
		if !ok {
			continue
		}
		parts = append(parts, cssName(key)+": "+value)
	}
	return strings.Join(parts, "; ")
}

// cssName converts a camelCase style key back to its CSS property name.
func cssName(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	name := b.String()
	if strings.HasPrefix(name, "ms-") {
		return "-" + name
	}
	return name
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
