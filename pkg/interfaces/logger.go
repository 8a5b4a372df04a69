package interfaces

import "context"

// Logger is the leveled logger every compiler stage writes to. Its method set
// matches github.com/goliatone/go-logger so a glog logger satisfies it.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by module name ("mdx.compiler",
// "mdx.commands", ...).
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry fields into every
// entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
