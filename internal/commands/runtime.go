package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-mdx/internal/logging"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

// DefaultCommandTimeout bounds one command. Compiling a single document is
// fast, so a hit usually means a stuck reader or writer.
const DefaultCommandTimeout = 30 * time.Second

// EnsureContext substitutes context.Background for nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// WithCommandTimeout bounds ctx by timeout; non-positive values leave it
// unbounded.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// EnsureLogger substitutes the no-op logger for nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger != nil {
		return logger
	}
	return logging.NoOp()
}
