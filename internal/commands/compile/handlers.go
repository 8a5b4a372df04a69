package compilecmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdx/internal/commands"
	"github.com/goliatone/go-mdx/internal/compiler"
	"github.com/goliatone/go-mdx/internal/ident"
	"github.com/goliatone/go-mdx/internal/logging"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

const (
	compileOperation = "mdx.compile_file"

	// SyntaxErrorCode tags syntax errors surfaced by the handler.
	SyntaxErrorCode = "MDX_SYNTAX_ERROR"
)

var _ command.Commander[CompileFileCommand] = (*CompileFileHandler)(nil)

// Config wires the handler's collaborators. Nil reader or writer fall back to
// FileSystem.
type Config struct {
	Compiler interfaces.DocumentCompiler
	Reader   SourceReader
	Writer   OutputWriter
	Logger   interfaces.Logger
	// OnCompiled receives every compiled document before it is written.
	OnCompiled func(*interfaces.CompiledDocument)
}

// CompileFileHandler compiles a document through the shared command handler
// foundation.
type CompileFileHandler struct {
	inner *commands.Handler[CompileFileCommand]
}

// NewCompileFileHandler creates a handler bound to cfg.Compiler.
func NewCompileFileHandler(cfg Config, opts ...commands.HandlerOption[CompileFileCommand]) *CompileFileHandler {
	if cfg.Compiler == nil {
		panic("compilecmd: compiler cannot be nil")
	}
	baseLogger := commands.EnsureLogger(cfg.Logger)
	var reader SourceReader = FileSystem{}
	if cfg.Reader != nil {
		reader = cfg.Reader
	}
	var writer OutputWriter = FileSystem{}
	if cfg.Writer != nil {
		writer = cfg.Writer
	}

	exec := func(ctx context.Context, msg CompileFileCommand) error {
		ctx = logging.ContextWithDocument(ctx, msg.Path)
		source := msg.Source
		if len(source) == 0 {
			data, err := reader.ReadSource(ctx, msg.Path)
			if err != nil {
				return err
			}
			source = data
		}

		doc, err := cfg.Compiler.CompileDocument(ctx, interfaces.CompileRequest{
			FilePath:    msg.Path,
			Source:      source,
			SkipExport:  msg.Options.SkipExport,
			Development: msg.Options.Development,
		})
		if err != nil {
			return wrapSyntaxError(msg.Path, err)
		}

		for _, w := range doc.Warnings {
			logging.WithFields(baseLogger, map[string]any{
				"path":   msg.Path,
				"line":   w.Line,
				"column": w.Column,
				"source": w.Source,
			}).Warn("mdx.command.compile_file.warning", "message", w.Message)
		}
		if cfg.OnCompiled != nil {
			cfg.OnCompiled(doc)
		}

		name := ident.ComponentName(msg.Path)
		out := msg.OutputPath()
		if err := writer.WriteOutput(ctx, out, []byte(withDisplayName(doc.Code, name))); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"path":       msg.Path,
			"out_path":   out,
			"component":  name,
			"compile_id": doc.CompileID,
			"warnings":   len(doc.Warnings),
		}).Info("mdx.command.compile_file.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CompileFileCommand]{
		commands.WithLogger[CompileFileCommand](baseLogger),
		commands.WithOperation[CompileFileCommand](compileOperation),
		commands.WithMessageFields(func(msg CompileFileCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if len(msg.Source) > 0 {
				fields["inline_source"] = true
			}
			if msg.Options.SkipExport != nil {
				fields["skip_export"] = *msg.Options.SkipExport
			}
			if msg.Options.Development != nil {
				fields["development"] = *msg.Options.Development
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CompileFileCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CompileFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CompileFileCommand].
func (h *CompileFileHandler) Execute(ctx context.Context, msg CompileFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

func wrapSyntaxError(path string, err error) error {
	d, ok := compiler.SyntaxError(err)
	if !ok {
		return err
	}
	location := fmt.Sprintf("%d:%d", d.Line, d.Column)
	if path != "" {
		location = path + ":" + location
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("%s: %s", location, d.Message)).
		WithTextCode(SyntaxErrorCode)
}

// withDisplayName names the exported content function after its document.
// Modules compiled without the export are returned unchanged.
func withDisplayName(code, name string) string {
	const marker = "MDXContent.isMDXComponent = true;\n"
	if name == "" || !strings.HasSuffix(code, marker) {
		return code
	}
	return code + "MDXContent.displayName = " + strconv.Quote(name) + ";\n"
}
