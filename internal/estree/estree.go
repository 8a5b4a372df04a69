// Package estree is the output syntax tree: just enough JavaScript to
// describe a component module built from element-construction calls.
package estree

// Node is any output node.
type Node interface {
	estree()
}

// Statement is a top-level or function-body statement.
type Statement interface {
	Node
	statement()
}

// Expr is an expression.
type Expr interface {
	Node
	expr()
}

// Program is an ordered list of statements.
type Program struct {
	Body []Statement
}

func (*Program) estree() {}

// Passthrough is an import/export statement emitted verbatim.
type Passthrough struct {
	Value string
}

// Comment is a block comment such as a pragma.
type Comment struct {
	Text string
}

// Const declares `const Name = Value;`, optionally exported.
type Const struct {
	Name   string
	Value  Expr
	Export bool
}

// Function declares a named function. Params are emitted verbatim.
type Function struct {
	Name          string
	Params        []string
	Body          []Statement
	Export        bool
	ExportDefault bool
}

// Return is `return Value;`.
type Return struct {
	Value Expr
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Expr Expr
}

func (*Passthrough) estree() {}
func (*Comment) estree()     {}
func (*Const) estree()       {}
func (*Function) estree()    {}
func (*Return) estree()      {}
func (*ExprStmt) estree()    {}

func (*Passthrough) statement() {}
func (*Comment) statement()     {}
func (*Const) statement()       {}
func (*Function) statement()    {}
func (*Return) statement()      {}
func (*ExprStmt) statement()    {}

// SourceLocation is the development-mode origin of an element.
type SourceLocation struct {
	FileName     string
	LineNumber   int
	ColumnNumber int
}

// Element is an element-construction call `mdx(Tag, Props, ...Children)`.
// Props is nil when the element has no properties.
type Element struct {
	Tag      Expr
	Props    *Object
	Children []Expr
	Source   *SourceLocation
}

// String is a quoted string literal.
type String struct {
	Value string
}

// Template is a template literal without substitutions.
type Template struct {
	Value string
}

// Raw is source code spliced verbatim, such as an expression island.
type Raw struct {
	Code string
}

// Ident is an identifier reference.
type Ident struct {
	Name string
}

// Property is one entry of an object literal. A Spread property emits
// `...Value` and ignores Key.
type Property struct {
	Key       string
	Value     Expr
	Spread    bool
	Shorthand bool
}

// Object is an object literal.
type Object struct {
	Properties []Property
}

// Array is an array literal.
type Array struct {
	Elements []Expr
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

// Null is the null literal.
type Null struct{}

// Call is a function call.
type Call struct {
	Callee Expr
	Args   []Expr
}

// Member is a property access `Object.Property`.
type Member struct {
	Object   Expr
	Property string
}

// Assign is an assignment expression `Target = Value`.
type Assign struct {
	Target Expr
	Value  Expr
}

func (*Element) estree()  {}
func (*String) estree()   {}
func (*Template) estree() {}
func (*Raw) estree()      {}
func (*Ident) estree()    {}
func (*Object) estree()   {}
func (*Array) estree()    {}
func (*Number) estree()   {}
func (*Bool) estree()     {}
func (*Null) estree()     {}
func (*Call) estree()     {}
func (*Member) estree()   {}
func (*Assign) estree()   {}

func (*Element) expr()  {}
func (*String) expr()   {}
func (*Template) expr() {}
func (*Raw) expr()      {}
func (*Ident) expr()    {}
func (*Object) expr()   {}
func (*Array) expr()    {}
func (*Number) expr()   {}
func (*Bool) expr()     {}
func (*Null) expr()     {}
func (*Call) expr()     {}
func (*Member) expr()   {}
func (*Assign) expr()   {}

// Set appends a property, keeping insertion order.
func (o *Object) Set(key string, value Expr) {
	o.Properties = append(o.Properties, Property{Key: key, Value: value})
}

// Spread appends a `...value` property.
func (o *Object) Spread(value Expr) {
	o.Properties = append(o.Properties, Property{Value: value, Spread: true})
}

// Str is shorthand for a string literal.
func Str(value string) *String {
	return &String{Value: value}
}

// Name is shorthand for an identifier reference.
func Name(name string) *Ident {
	return &Ident{Name: name}
}
