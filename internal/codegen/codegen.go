// Package codegen prints an estree program as JavaScript source.
package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-mdx/internal/estree"
	"github.com/goliatone/go-mdx/internal/ident"
)

// Pragma is the element factory every Element call goes through.
const Pragma = "mdx"

// Generate prints program. The output ends with a newline.
func Generate(program *estree.Program) string {
	if program == nil || len(program.Body) == 0 {
		return ""
	}
	e := newEmitter()
	for i, stmt := range program.Body {
		if i > 0 && separated(program.Body[i-1], stmt) {
			e.println("")
		}
		statement(e, stmt)
	}
	return e.toSource() + "\n"
}

// Expression prints a single expression.
func Expression(expr estree.Expr) string {
	e := newEmitter()
	expression(e, expr)
	return e.toSource()
}

// separated reports whether a blank line goes between two top-level
// statements: statements of the same simple kind stay grouped.
func separated(prev, next estree.Statement) bool {
	switch prev.(type) {
	case *estree.Comment:
		_, same := next.(*estree.Comment)
		return !same
	case *estree.Passthrough:
		_, same := next.(*estree.Passthrough)
		return !same
	case *estree.Const:
		c, same := next.(*estree.Const)
		return !same || c.Export
	}
	return true
}

func statement(e *emitter, stmt estree.Statement) {
	switch s := stmt.(type) {
	case *estree.Comment:
		e.println("/* " + s.Text + " */")
	case *estree.Passthrough:
		e.println(strings.TrimRight(s.Value, "\r\n"))
	case *estree.Const:
		if s.Export {
			e.print("export ")
		}
		e.print("const " + s.Name + " = ")
		expression(e, s.Value)
		e.println(";")
	case *estree.Function:
		switch {
		case s.ExportDefault:
			e.print("export default ")
		case s.Export:
			e.print("export ")
		}
		e.println("function " + s.Name + "(" + strings.Join(s.Params, ", ") + ") {")
		e.incIndent()
		for _, inner := range s.Body {
			statement(e, inner)
		}
		e.decIndent()
		e.println("}")
	case *estree.Return:
		e.print("return ")
		expression(e, s.Value)
		e.println(";")
	case *estree.ExprStmt:
		expression(e, s.Expr)
		e.println(";")
	default:
		panic(fmt.Sprintf("codegen: unsupported statement %T", stmt))
	}
}

func expression(e *emitter, expr estree.Expr) {
	switch x := expr.(type) {
	case *estree.Element:
		element(e, x)
	case *estree.String:
		e.print(QuoteString(x.Value))
	case *estree.Template:
		e.print(TemplateLiteral(x.Value))
	case *estree.Raw:
		e.print(x.Code)
	case *estree.Ident:
		e.print(x.Name)
	case *estree.Object:
		object(e, x)
	case *estree.Array:
		e.print("[")
		for i, el := range x.Elements {
			if i > 0 {
				e.print(", ")
			}
			expression(e, el)
		}
		e.print("]")
	case *estree.Number:
		e.print(formatNumber(x.Value))
	case *estree.Bool:
		e.print(strconv.FormatBool(x.Value))
	case *estree.Null:
		e.print("null")
	case *estree.Call:
		expression(e, x.Callee)
		e.print("(")
		for i, arg := range x.Args {
			if i > 0 {
				e.print(", ")
			}
			expression(e, arg)
		}
		e.print(")")
	case *estree.Member:
		expression(e, x.Object)
		e.print("." + x.Property)
	case *estree.Assign:
		expression(e, x.Target)
		e.print(" = ")
		expression(e, x.Value)
	case nil:
		e.print("undefined")
	default:
		panic(fmt.Sprintf("codegen: unsupported expression %T", expr))
	}
}

// element prints `mdx(tag, props, ...children)`. Children go on their own
// lines as soon as one of them is an element.
func element(e *emitter, el *estree.Element) {
	e.print(Pragma + "(")
	expression(e, el.Tag)
	e.print(", ")

	props := el.Props
	if el.Source != nil {
		props = withSource(props, el.Source)
	}
	if props == nil || len(props.Properties) == 0 {
		e.print("null")
	} else {
		object(e, props)
	}

	if len(el.Children) == 0 {
		e.print(")")
		return
	}
	if !hasElement(el.Children) {
		for _, child := range el.Children {
			e.print(", ")
			expression(e, child)
		}
		e.print(")")
		return
	}

	e.println(",")
	e.incIndent()
	for i, child := range el.Children {
		expression(e, child)
		if i < len(el.Children)-1 {
			e.println(",")
		} else {
			e.println("")
		}
	}
	e.decIndent()
	e.print(")")
}

func object(e *emitter, o *estree.Object) {
	if len(o.Properties) == 0 {
		e.print("{}")
		return
	}
	e.print("{")
	for i, prop := range o.Properties {
		if i > 0 {
			e.print(", ")
		}
		switch {
		case prop.Spread:
			e.print("...")
			expression(e, prop.Value)
		case prop.Shorthand:
			e.print(prop.Key)
		default:
			e.print(PropertyKey(prop.Key) + ": ")
			expression(e, prop.Value)
		}
	}
	e.print("}")
}

func withSource(props *estree.Object, src *estree.SourceLocation) *estree.Object {
	out := &estree.Object{}
	if props != nil {
		out.Properties = append(out.Properties, props.Properties...)
	}
	location := &estree.Object{}
	location.Set("fileName", estree.Str(src.FileName))
	location.Set("lineNumber", &estree.Number{Value: float64(src.LineNumber)})
	location.Set("columnNumber", &estree.Number{Value: float64(src.ColumnNumber)})
	out.Set("__source", location)
	return out
}

func hasElement(children []estree.Expr) bool {
	for _, child := range children {
		if _, ok := child.(*estree.Element); ok {
			return true
		}
	}
	return false
}

// PropertyKey returns key bare when it is a valid identifier and quoted
// otherwise.
func PropertyKey(key string) string {
	if ident.IsValid(key) {
		return key
	}
	return QuoteString(key)
}

// QuoteString returns s as a double-quoted string literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// TemplateLiteral returns s as a template literal that evaluates to exactly
// s: backslashes, backticks and `${` are escaped, and carriage returns are
// written as `\r` since literal ones are normalised to line feeds.
func TemplateLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('`')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '`':
			b.WriteString("\\`")
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		case c == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('`')
	return b.String()
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
