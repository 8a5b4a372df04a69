// Package di wires configuration, logging, the compiler and the build
// adapter into one container.
package di

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-mdx/internal/commands"
	compilecmd "github.com/goliatone/go-mdx/internal/commands/compile"
	"github.com/goliatone/go-mdx/internal/compiler"
	"github.com/goliatone/go-mdx/internal/logging"
	"github.com/goliatone/go-mdx/internal/logging/console"
	"github.com/goliatone/go-mdx/internal/logging/gologger"
	"github.com/goliatone/go-mdx/internal/markdown"
	"github.com/goliatone/go-mdx/internal/runtimeconfig"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	reader         compilecmd.SourceReader
	writer         compilecmd.OutputWriter
	newID          func() string

	compiler       *compiler.Compiler
	compileHandler *compilecmd.CompileFileHandler

	documentsOnce sync.Once
	documents     *markdown.Service
	documentsErr  error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithSourceReader overrides how the compile handler reads documents.
func WithSourceReader(reader compilecmd.SourceReader) Option {
	return func(c *Container) {
		c.reader = reader
	}
}

// WithOutputWriter overrides where the compile handler writes modules.
func WithOutputWriter(writer compilecmd.OutputWriter) Option {
	return func(c *Container) {
		c.writer = writer
	}
}

// WithIDGenerator overrides how compile IDs are produced.
func WithIDGenerator(fn func() string) Option {
	return func(c *Container) {
		c.newID = fn
	}
}

// NewContainer validates cfg and builds the compiler and its collaborators.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}

	compilerOpts := []compiler.Option{
		compiler.WithLogger(logging.CompilerLogger(c.loggerProvider)),
	}
	if c.newID != nil {
		compilerOpts = append(compilerOpts, compiler.WithIDGenerator(c.newID))
	}
	c.compiler = compiler.New(CompilerOptions(cfg), compilerOpts...)

	c.compileHandler = compilecmd.NewCompileFileHandler(compilecmd.Config{
		Compiler: c.compiler,
		Reader:   c.reader,
		Writer:   c.writer,
		Logger:   commands.CommandLogger(c.loggerProvider, "compile"),
	})

	logging.ModuleLogger(c.loggerProvider, "mdx").Debug("container.configured",
		"logging_provider", c.Config.Logging.Provider,
		"components", len(cfg.Compiler.Components),
	)
	return c, nil
}

// CompilerOptions maps the configuration onto compiler options.
func CompilerOptions(cfg runtimeconfig.Config) compiler.Options {
	return compiler.Options{
		Components:           append([]string(nil), cfg.Compiler.Components...),
		SkipExport:           cfg.Compiler.SkipExport,
		ProviderImportSource: cfg.Compiler.ProviderImportSource,
		Development:          cfg.Compiler.Development,
		Pragma:               cfg.Compiler.Pragma,
		Markdown:             cfg.Markdown.Parser.ParseOptions(),
	}
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "console":
		level, err := console.ParseLevel(logCfg.Level)
		if err != nil {
			return fmt.Errorf("di: %w", err)
		}
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

// LoggerProvider returns the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Compiler returns the shared compiler.
func (c *Container) Compiler() *compiler.Compiler {
	return c.compiler
}

// CompileHandler returns the compile-file command handler.
func (c *Container) CompileHandler() *compilecmd.CompileFileHandler {
	return c.compileHandler
}

// Documents returns the document service rooted at Config.Markdown.ContentDir,
// built on first use.
func (c *Container) Documents() (*markdown.Service, error) {
	c.documentsOnce.Do(func() {
		c.documents, c.documentsErr = markdown.NewService(markdown.Config{
			BasePath:  c.Config.Markdown.ContentDir,
			Pattern:   c.Config.Markdown.Pattern,
			Recursive: c.Config.Markdown.Recursive,
			Parser:    c.Config.Markdown.Parser.ParseOptions(),
		}, nil)
	})
	return c.documents, c.documentsErr
}
