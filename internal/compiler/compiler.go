// Package compiler runs the full pipeline: parse the hybrid document, merge
// it into the unified tree, serialise the output tree and print it.
package compiler

import (
	"context"
	"errors"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdx/internal/codegen"
	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/internal/estree"
	"github.com/goliatone/go-mdx/internal/logging"
	"github.com/goliatone/go-mdx/internal/markdown"
	"github.com/goliatone/go-mdx/internal/mdast"
	"github.com/goliatone/go-mdx/internal/merge"
	"github.com/goliatone/go-mdx/internal/serialize"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

// Pipeline stages, as reported in logs.
const (
	StageParse     = "parse"
	StageMerge     = "merge"
	StageSerialize = "serialize"
	StageGenerate  = "generate"
)

// Options configures every compilation run by a Compiler.
type Options struct {
	Components           []string
	SkipExport           bool
	ProviderImportSource string
	Development          bool
	Pragma               bool
	Markdown             interfaces.ParseOptions
}

// Result is the outcome of a successful compilation.
type Result struct {
	CompileID string
	Code      string
	Program   *estree.Program
	Tree      *mdast.Root
	Warnings  []diag.Diagnostic
}

// Compiler is immutable after construction and safe for concurrent use.
type Compiler struct {
	opts   Options
	parser *markdown.Parser
	logger interfaces.Logger
	newID  func() string
}

// Option customises a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides how compile IDs are produced.
func WithIDGenerator(fn func() string) Option {
	return func(c *Compiler) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New builds a compiler for opts.
func New(opts Options, options ...Option) *Compiler {
	c := &Compiler{
		opts:   opts,
		parser: markdown.NewParser(opts.Markdown),
		logger: logging.NoOp(),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Options returns the configuration the compiler was built with.
func (c *Compiler) Options() Options {
	return c.opts
}

// Compile runs the pipeline over source. filePath is only used for
// diagnostics and development source locations. Syntax errors are returned
// as *diag.Diagnostic; no partial result is returned on failure.
func (c *Compiler) Compile(ctx context.Context, filePath string, source []byte) (*Result, error) {
	return c.compile(ctx, filePath, source, c.opts)
}

func (c *Compiler) compile(ctx context.Context, filePath string, source []byte, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	compileID := c.newID()
	logger := logging.WithFields(logging.WithDocumentContext(c.logger, filePath, ""), map[string]any{
		"compile_id": compileID,
	}).WithContext(ctx)
	logger.Debug("compile.start", "bytes", len(source))

	fail := func(stage string, err error) (*Result, error) {
		logger.Error("compile.failed", "stage", stage, "error", err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return fail(StageParse, err)
	}
	collector := diag.NewCollector(source)
	if !utf8.Valid(source) {
		collector.Warnf(0, "input", "source is not valid UTF-8, invalid bytes are replaced")
	}
	doc := c.parser.Parse(source, collector)
	if fatal := collector.Fatal(); fatal != nil {
		return fail(StageParse, fatal)
	}
	logger.Debug("compile.stage", "stage", StageParse)

	if err := ctx.Err(); err != nil {
		return fail(StageMerge, err)
	}
	tree, mergeWarnings, err := merge.Merge(doc.Root, doc.Source, merge.Options{
		HardWraps:   opts.Markdown.HardWraps,
		Frontmatter: doc.Frontmatter,
	})
	if err != nil {
		return fail(StageMerge, err)
	}
	logger.Debug("compile.stage", "stage", StageMerge)

	if err := ctx.Err(); err != nil {
		return fail(StageSerialize, err)
	}
	program, serializeWarnings := serialize.Serialize(tree, serialize.Options{
		Components:           opts.Components,
		SkipExport:           opts.SkipExport,
		ProviderImportSource: opts.ProviderImportSource,
		Development:          opts.Development,
		FilePath:             filePath,
		Pragma:               opts.Pragma,
	})
	logger.Debug("compile.stage", "stage", StageSerialize)

	if err := ctx.Err(); err != nil {
		return fail(StageGenerate, err)
	}
	code := codegen.Generate(program)
	logger.Debug("compile.stage", "stage", StageGenerate)

	warnings := mergeDiagnostics(collector.Warnings(), mergeWarnings, serializeWarnings)
	for _, w := range warnings {
		logger.Warn("compile.warning", "line", w.Line, "column", w.Column, "source", w.Source, "message", w.Message)
	}
	logger.Info("compile.success", "warnings", len(warnings), "code_bytes", len(code))

	return &Result{
		CompileID: compileID,
		Code:      code,
		Program:   program,
		Tree:      tree,
		Warnings:  warnings,
	}, nil
}

// CompileDocument implements interfaces.DocumentCompiler.
func (c *Compiler) CompileDocument(ctx context.Context, req interfaces.CompileRequest) (*interfaces.CompiledDocument, error) {
	opts := c.opts
	if req.SkipExport != nil {
		opts.SkipExport = *req.SkipExport
	}
	if req.Development != nil {
		opts.Development = *req.Development
	}

	result, err := c.compile(ctx, req.FilePath, req.Source, opts)
	if err != nil {
		return nil, err
	}

	doc := &interfaces.CompiledDocument{
		FilePath:  req.FilePath,
		Code:      result.Code,
		CompileID: result.CompileID,
	}
	for _, w := range result.Warnings {
		doc.Warnings = append(doc.Warnings, interfaces.CompileWarning{
			Message: w.Message,
			Line:    w.Line,
			Column:  w.Column,
			Offset:  w.Offset,
			Source:  w.Source,
		})
	}
	return doc, nil
}

// IsSyntaxError reports whether err is a fatal diagnostic raised by the
// parser or merger, as opposed to cancellation or an internal failure.
func IsSyntaxError(err error) bool {
	var d *diag.Diagnostic
	return errors.As(err, &d) && d.Fatal
}

// SyntaxError extracts the fatal diagnostic from err.
func SyntaxError(err error) (*diag.Diagnostic, bool) {
	var d *diag.Diagnostic
	if errors.As(err, &d) && d.Fatal {
		return d, true
	}
	return nil, false
}

func mergeDiagnostics(groups ...[]diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, group := range groups {
		out = append(out, group...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}

var _ interfaces.DocumentCompiler = (*Compiler)(nil)
