// Package runtime is a reference implementation of the rendering contract the
// generated modules rely on: a component dictionary, a provider stack and the
// name resolution applied to every element at render time. RenderHTML uses it
// to render static programs to HTML for previews and tests.
package runtime

import (
	"maps"
	"slices"

	"golang.org/x/net/html"
)

// Special dictionary keys.
const (
	// WrapperKey overrides the root element of a document.
	WrapperKey = "wrapper"
	// InlineCodeKey overrides how inline code renders.
	InlineCodeKey = "inlineCode"
)

// Props are the evaluated properties of an element. Compiler markers such as
// mdxType and parentName are removed before a component sees them.
type Props map[string]any

// Component renders an element from its props and rendered children.
type Component interface {
	Render(props Props, children []*html.Node) ([]*html.Node, error)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(props Props, children []*html.Node) ([]*html.Node, error)

// Render implements Component.
func (f ComponentFunc) Render(props Props, children []*html.Node) ([]*html.Node, error) {
	return f(props, children)
}

// Tag renders as the intrinsic element name, the way a string entry in a
// component dictionary does.
func Tag(name string) Component {
	return ComponentFunc(func(props Props, children []*html.Node) ([]*html.Node, error) {
		return []*html.Node{intrinsic(name, props, children)}, nil
	})
}

// Fragment renders only its children.
func Fragment() Component {
	return ComponentFunc(func(_ Props, children []*html.Node) ([]*html.Node, error) {
		return children, nil
	})
}

// Components is an immutable name to component dictionary. Keys are element
// names, optionally scoped to a parent as "parent.name".
type Components struct {
	entries map[string]Component
}

// NewComponents copies entries into a dictionary.
func NewComponents(entries map[string]Component) Components {
	return Components{entries: maps.Clone(entries)}
}

// DefaultComponents are consulted after the provider: inline code renders as
// code and the wrapper renders its children only.
func DefaultComponents() Components {
	return NewComponents(map[string]Component{
		InlineCodeKey: Tag("code"),
		WrapperKey:    Fragment(),
	})
}

// Lookup returns the component registered under name.
func (c Components) Lookup(name string) (Component, bool) {
	comp, ok := c.entries[name]
	return comp, ok && comp != nil
}

// Len reports the number of entries.
func (c Components) Len() int {
	return len(c.entries)
}

// Names lists the registered names in order.
func (c Components) Names() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Merge returns a dictionary where entries of other shallowly override c.
func (c Components) Merge(other Components) Components {
	merged := make(map[string]Component, len(c.entries)+len(other.entries))
	maps.Copy(merged, c.entries)
	maps.Copy(merged, other.entries)
	return Components{entries: merged}
}

// Replace returns other, discarding c. It is the explicit alternative to
// Merge for a provider that must not inherit its parent's entries.
func (c Components) Replace(other Components) Components {
	return NewComponents(other.entries)
}

// With returns a copy of c with name bound to comp.
func (c Components) With(name string, comp Component) Components {
	return c.Merge(NewComponents(map[string]Component{name: comp}))
}

// Provider is one level of the provider stack. The zero value and nil are
// empty roots.
type Provider struct {
	parent     *Provider
	components Components
}

// NewProvider starts a stack with components.
func NewProvider(components Components) *Provider {
	return &Provider{components: components}
}

// Nest pushes a provider whose entries shallowly override those of p.
func (p *Provider) Nest(components Components) *Provider {
	return &Provider{parent: p, components: p.Components().Merge(components)}
}

// NestWith pushes a provider computed from the parent's dictionary, which
// allows replacing it outright.
func (p *Provider) NestWith(fn func(parent Components) Components) *Provider {
	return &Provider{parent: p, components: fn(p.Components())}
}

// Parent returns the enclosing provider, or nil at the root.
func (p *Provider) Parent() *Provider {
	if p == nil {
		return nil
	}
	return p.parent
}

// Components returns the effective dictionary at this level.
func (p *Provider) Components() Components {
	if p == nil {
		return Components{}
	}
	return p.components
}

// Resolver applies the render-time resolution order: the components prop
// first, then the nearest provider, then the defaults. A nil result means the
// literal tag name is rendered.
type Resolver struct {
	Override Components
	Provider *Provider
	Defaults Components
}

// Resolve looks name up at each level, trying "parent.name" before name.
func (r Resolver) Resolve(name, parentName string) Component {
	for _, dict := range []Components{r.Override, r.Provider.Components(), r.Defaults} {
		if parentName != "" {
			if comp, ok := dict.Lookup(parentName + "." + name); ok {
				return comp
			}
		}
		if comp, ok := dict.Lookup(name); ok {
			return comp
		}
	}
	return nil
}
