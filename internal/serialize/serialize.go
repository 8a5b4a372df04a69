// Package serialize lowers the unified tree into the output syntax tree: a
// component module whose default export renders the document through
// element-construction calls.
package serialize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/internal/estree"
	"github.com/goliatone/go-mdx/internal/ident"
	"github.com/goliatone/go-mdx/internal/lines"
	"github.com/goliatone/go-mdx/internal/mdast"
)

// Names the generated module declares.
const (
	ContentName      = "MDXContent"
	LayoutName       = "MDXLayout"
	LayoutPropsName  = "layoutProps"
	ShortcodeFactory = "makeShortcode"
	PragmaName       = "mdx"
	FrontmatterName  = "frontmatter"
	WrapperKey       = "wrapper"
	ComponentsParam  = "components"
)

const diagnosticSource = "serialize"

// Options controls the shape of the generated module.
type Options struct {
	// Components are names the caller provides at render time. They are
	// rendered as `components.<name>` lookups instead of shortcodes, even
	// when they do not start with an upper-case letter.
	Components []string
	// SkipExport drops the MDXContent wrapper and emits the root element
	// call as a bare expression statement. The embedding scope must bind
	// `props` and `components`, which the wrapper otherwise destructures.
	SkipExport bool
	// ProviderImportSource adds `import { mdx } from "<source>"`.
	ProviderImportSource string
	// Development attaches __source locations to every element call.
	Development bool
	// FilePath is reported in __source locations.
	FilePath string
	// Pragma emits the classic runtime pragma comments.
	Pragma bool
}

var generatedNames = map[string]struct{}{
	ContentName:      {},
	LayoutName:       {},
	LayoutPropsName:  {},
	ShortcodeFactory: {},
	PragmaName:       {},
}

// makeShortcodeSource is the fallback used for components that are neither
// imported, exported nor provided.
const makeShortcodeSource = `name => function MDXDefaultShortcode(props) {
  console.warn("Component " + name + " was not imported, exported, or provided by MDXProvider as global scope");
  return mdx("div", props);
}`

// Serialize builds the output program for root. It never fails: problems
// that do not prevent code generation are returned as warnings.
func Serialize(root *mdast.Root, opts Options) (*estree.Program, []diag.Diagnostic) {
	s := &serializer{
		opts:       opts,
		components: make(map[string]struct{}, len(opts.Components)),
		declared:   map[string]struct{}{},
	}
	for _, name := range opts.Components {
		s.components[name] = struct{}{}
	}
	if root == nil {
		root = &mdast.Root{}
	}
	return s.program(root), s.warnings
}

type serializer struct {
	opts       Options
	components map[string]struct{}
	declared   map[string]struct{}
	warnings   []diag.Diagnostic

	imports     []statement
	exports     []statement
	layout      *statement
	frontmatter *mdast.Frontmatter
	exported    []string

	shortcodes []shortcode
	bound      map[string]string
}

type shortcode struct {
	name       string
	identifier string
}

func (s *serializer) warnf(pos mdast.Position, format string, args ...any) {
	s.warnings = append(s.warnings, diag.Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
		Offset:  pos.Offset,
		Source:  diagnosticSource,
	})
}

func (s *serializer) program(root *mdast.Root) *estree.Program {
	content := s.partition(root)
	s.collectShortcodes(content)
	children := s.children(content, nil)

	program := &estree.Program{}
	add := func(stmt estree.Statement) {
		program.Body = append(program.Body, stmt)
	}

	if s.opts.Pragma {
		add(&estree.Comment{Text: "@jsxRuntime classic"})
		add(&estree.Comment{Text: "@jsx " + PragmaName})
	}
	if source := strings.TrimSpace(s.opts.ProviderImportSource); source != "" {
		add(&estree.Passthrough{Value: "import { " + PragmaName + " } from " + strconv.Quote(source) + ";"})
	}
	for _, stmt := range s.imports {
		add(&estree.Passthrough{Value: stmt.text})
	}
	if s.frontmatter != nil {
		add(&estree.Const{Name: FrontmatterName, Value: dataExpr(s.frontmatter.Data), Export: true})
	}
	for _, stmt := range s.exports {
		add(&estree.Passthrough{Value: stmt.text})
	}

	layoutProps := &estree.Object{}
	for _, name := range s.exported {
		layoutProps.Properties = append(layoutProps.Properties, estree.Property{Key: name, Shorthand: true})
	}
	add(&estree.Const{Name: LayoutPropsName, Value: layoutProps})

	var layout estree.Expr = estree.Str(WrapperKey)
	if s.layout != nil {
		layout = &estree.Raw{Code: layoutExpression(s.layout.text)}
	}
	add(&estree.Const{Name: LayoutName, Value: layout})

	if len(s.shortcodes) > 0 {
		add(&estree.Const{Name: ShortcodeFactory, Value: &estree.Raw{Code: makeShortcodeSource}})
		for _, sc := range s.shortcodes {
			add(&estree.Const{
				Name:  sc.identifier,
				Value: &estree.Call{Callee: estree.Name(ShortcodeFactory), Args: []estree.Expr{estree.Str(sc.name)}},
			})
		}
	}

	rootProps := &estree.Object{}
	rootProps.Spread(estree.Name(LayoutPropsName))
	rootProps.Spread(estree.Name("props"))
	rootProps.Properties = append(rootProps.Properties, estree.Property{Key: ComponentsParam, Shorthand: true})
	rootProps.Set("mdxType", estree.Str(LayoutName))
	rootElement := &estree.Element{Tag: estree.Name(LayoutName), Props: rootProps, Children: children}

	if s.opts.SkipExport {
		add(&estree.ExprStmt{Expr: rootElement})
		return program
	}

	add(&estree.Function{
		Name:          ContentName,
		Params:        []string{"{ " + ComponentsParam + ", ...props }"},
		ExportDefault: true,
		Body:          []estree.Statement{&estree.Return{Value: rootElement}},
	})
	add(&estree.ExprStmt{Expr: &estree.Assign{
		Target: &estree.Member{Object: estree.Name(ContentName), Property: "isMDXComponent"},
		Value:  &estree.Bool{Value: true},
	}})
	return program
}

// partition pulls statements and frontmatter out of the root and returns
// the remaining content nodes.
func (s *serializer) partition(root *mdast.Root) []mdast.Node {
	content := make([]mdast.Node, 0, len(root.Children))
	for _, child := range root.Children {
		switch v := child.(type) {
		case *mdast.Frontmatter:
			if s.frontmatter == nil {
				s.frontmatter = v
				s.declare(FrontmatterName, v.Position, "frontmatter")
				s.exported = append(s.exported, FrontmatterName)
			}
		case *mdast.ESM:
			for _, stmt := range splitStatements(v) {
				s.statement(stmt)
			}
		default:
			content = append(content, child)
		}
	}
	return content
}

func (s *serializer) statement(stmt statement) {
	switch {
	case stmt.kind == lines.KindImport:
		s.imports = append(s.imports, stmt)
		for _, name := range importBindings(stmt.text) {
			s.declare(name, stmt.position, "import")
		}
	case stmt.isDefault:
		if s.layout != nil {
			s.warnf(stmt.position, "more than one default export, keeping the first one")
			return
		}
		layout := stmt
		s.layout = &layout
	default:
		s.exports = append(s.exports, stmt)
		for _, name := range exportBindings(stmt.text) {
			s.declare(name, stmt.position, "export")
			s.exported = append(s.exported, name)
		}
	}
}

func (s *serializer) declare(name string, pos mdast.Position, origin string) {
	if _, ok := generatedNames[name]; ok {
		s.warnf(pos, "%s `%s` shadows a name the compiler generates", origin, name)
	}
	if name == FrontmatterName && s.frontmatter != nil && origin != "frontmatter" {
		s.warnf(pos, "%s `%s` collides with the frontmatter export", origin, name)
	}
	s.declared[name] = struct{}{}
}

// collectShortcodes declares a fallback for every component reference that
// nothing in scope provides, in order of first use.
func (s *serializer) collectShortcodes(content []mdast.Node) {
	seen := map[string]struct{}{}
	taken := map[string]string{}
	for name := range s.declared {
		taken[name] = name
	}
	s.bound = map[string]string{}

	for _, node := range content {
		mdast.Walk(node, func(n mdast.Node) bool {
			el, ok := n.(*mdast.Element)
			if !ok || !s.isComponent(el.Name) || strings.Contains(el.Name, ".") {
				return true
			}
			if _, ok := seen[el.Name]; ok {
				return true
			}
			seen[el.Name] = struct{}{}
			if _, ok := s.declared[el.Name]; ok {
				return true
			}
			if s.provided(el.Name) {
				return true
			}

			identifier := ident.ToValidIdentifier(el.Name)
			if identifier != el.Name {
				s.warnf(el.Position, "component name `%s` is not a valid identifier, using `%s`", el.Name, identifier)
			}
			if _, ok := generatedNames[identifier]; ok {
				s.warnf(el.Position, "component `%s` collides with a generated name, using `_%s`", el.Name, identifier)
				identifier = "_" + identifier
			}
			for {
				owner, clash := taken[identifier]
				if !clash {
					break
				}
				s.warnf(el.Position, "component `%s` collides with `%s` as identifier `%s`", el.Name, owner, identifier)
				identifier = "_" + identifier
			}
			taken[identifier] = el.Name
			s.bound[el.Name] = identifier
			s.shortcodes = append(s.shortcodes, shortcode{name: el.Name, identifier: identifier})
			return true
		})
	}
}

// provided reports whether name is a configured component the caller
// passes through the components parameter at render time.
func (s *serializer) provided(name string) bool {
	if _, ok := s.components[name]; !ok {
		return false
	}
	if _, ok := s.declared[name]; ok {
		return false
	}
	return ident.IsValid(name)
}

// isComponent reports whether name is resolved through the components
// dictionary rather than rendered as an intrinsic tag.
func (s *serializer) isComponent(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := s.components[name]; ok {
		return true
	}
	if strings.Contains(name, ".") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(first)
}
