package mdx

import (
	"context"

	compilecmd "github.com/goliatone/go-mdx/internal/commands/compile"
	"github.com/goliatone/go-mdx/internal/compiler"
	"github.com/goliatone/go-mdx/internal/di"
	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/internal/estree"
	"github.com/goliatone/go-mdx/internal/markdown"
	"github.com/goliatone/go-mdx/internal/mdast"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

// Result is the outcome of a successful compilation.
type Result = compiler.Result

// Diagnostic is a located error or warning. Fatal diagnostics implement error.
type Diagnostic = diag.Diagnostic

// Program is the output syntax tree.
type Program = estree.Program

// Tree is the unified document tree.
type Tree = mdast.Root

// MarkdownOptions configures the Markdown host grammar.
type MarkdownOptions = interfaces.ParseOptions

// CompileFileCommand asks a Module to compile one file.
type CompileFileCommand = compilecmd.CompileFileCommand

// Option customises a single Compile call.
type Option func(*settings)

type settings struct {
	opts     compiler.Options
	filePath string
	logger   interfaces.Logger
}

// WithComponents names components provided at runtime; they are looked up
// as `components.<name>` instead of through makeShortcode.
func WithComponents(names ...string) Option {
	return func(s *settings) {
		s.opts.Components = append(s.opts.Components, names...)
	}
}

// WithSkipExport emits the root element expression without the component
// wrapper function. The code that evaluates it must bind `props` and
// `components`.
func WithSkipExport(skip bool) Option {
	return func(s *settings) {
		s.opts.SkipExport = skip
	}
}

// WithProviderImportSource imports the pragma function from source.
func WithProviderImportSource(source string) Option {
	return func(s *settings) {
		s.opts.ProviderImportSource = source
	}
}

// WithDevelopment adds source locations to every element.
func WithDevelopment(development bool) Option {
	return func(s *settings) {
		s.opts.Development = development
	}
}

// WithPragma toggles the leading pragma comments. On by default.
func WithPragma(pragma bool) Option {
	return func(s *settings) {
		s.opts.Pragma = pragma
	}
}

// WithMarkdown configures the Markdown host grammar.
func WithMarkdown(opts MarkdownOptions) Option {
	return func(s *settings) {
		s.opts.Markdown = opts
	}
}

// WithFilePath names the document for diagnostics and source locations.
func WithFilePath(path string) Option {
	return func(s *settings) {
		s.filePath = path
	}
}

// WithLogger receives the compiler's lifecycle entries.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// Compile compiles one document. On a syntax error it returns a fatal
// *Diagnostic and no result.
func Compile(ctx context.Context, source []byte, opts ...Option) (*Result, error) {
	s := &settings{opts: di.CompilerOptions(DefaultConfig())}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return compiler.New(s.opts, compiler.WithLogger(s.logger)).Compile(ctx, s.filePath, source)
}

// CompileString is Compile for string sources.
func CompileString(ctx context.Context, source string, opts ...Option) (*Result, error) {
	return Compile(ctx, []byte(source), opts...)
}

// IsSyntaxError reports whether err is a fatal diagnostic.
func IsSyntaxError(err error) bool {
	return compiler.IsSyntaxError(err)
}

// SyntaxError extracts the fatal diagnostic from err.
func SyntaxError(err error) (*Diagnostic, bool) {
	return compiler.SyntaxError(err)
}

// Module is a configured compiler with its build adapter.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg and optional container overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Compiler returns the module's compiler.
func (m *Module) Compiler() interfaces.DocumentCompiler {
	return m.container.Compiler()
}

// CompileFile compiles cmd.Path (or cmd.Source) and writes the module.
func (m *Module) CompileFile(ctx context.Context, cmd CompileFileCommand) error {
	return m.container.CompileHandler().Execute(ctx, cmd)
}

// Documents returns the service that discovers documents under the
// configured content directory.
func (m *Module) Documents() (*markdown.Service, error) {
	return m.container.Documents()
}
