package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-mdx/pkg/interfaces"
)

const (
	rootModule     = "mdx"
	compilerModule = "mdx.compiler"
	parserModule   = "mdx.parser"
)

const (
	fieldDocumentPath = "document_path"
	fieldStage        = "stage"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op
// logger when provider is nil or returns nothing. The module name is attached
// as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// CompilerLogger returns the logger namespace of the compile pipeline.
func CompilerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, compilerModule)
}

// ParserLogger returns the logger namespace of document loading and parsing.
func ParserLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, parserModule)
}

// WithDocumentContext adds the document path and pipeline stage to logger.
// Empty values are skipped.
func WithDocumentContext(logger interfaces.Logger, path, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
