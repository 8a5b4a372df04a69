package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-mdx/pkg/interfaces"
)

type fieldsKey struct{}

// WithFields returns logger with fields attached when it implements
// interfaces.FieldsLogger, and logger unchanged otherwise. fields is copied.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger
}

// ContextWithFields layers fields over those already carried by ctx. Loggers
// bound with WithContext emit them on every entry.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// ContextWithDocument tags ctx with the document being compiled.
func ContextWithDocument(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldDocumentPath: path})
}

// ContextFields returns a copy of the fields carried by ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
