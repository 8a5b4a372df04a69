package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdx/pkg/interfaces"
)

type testMessage struct {
	Path string
}

func (testMessage) Type() string { return "mdx.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "mdx.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	assertTextCode(t, err, CodeCanceled)
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	assertTextCode(t, err, CodeFailed)
}

func assertTextCode(t *testing.T, err error, want string) {
	t.Helper()
	var wrapped *goerrors.Error
	if !errors.As(err, &wrapped) || wrapped.TextCode != want {
		t.Fatalf("expected text code %s, got %v", want, err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	categorised := goerrors.Wrap(errors.New("bad input"), goerrors.CategoryValidation, "syntax")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return categorised
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected the handler to keep the validation category, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	},
		WithTimeout[testMessage](10*time.Millisecond),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			status = info.Status
		}),
	)

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context_error telemetry, got %q", status)
	}
}

func TestHandlerTelemetryCarriesMessageFields(t *testing.T) {
	var got TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithOperation[testMessage]("mdx.compile_file"),
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			got = info
		}),
	)

	if err := h.Execute(context.Background(), testMessage{Path: "docs/a.mdx"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != TelemetryStatusSuccess || got.Command != "mdx.test.message" || got.Operation != "mdx.compile_file" {
		t.Fatalf("unexpected telemetry %+v", got)
	}
	if got.Fields["path"] != "docs/a.mdx" || got.Fields["operation"] != "mdx.compile_file" {
		t.Fatalf("unexpected fields %+v", got.Fields)
	}
}

type entryLogger struct {
	fields  map[string]any
	entries []string
}

func (l *entryLogger) Trace(msg string, _ ...any) { l.entries = append(l.entries, msg) }
func (l *entryLogger) Debug(msg string, _ ...any) { l.entries = append(l.entries, msg) }
func (l *entryLogger) Info(msg string, _ ...any)  { l.entries = append(l.entries, msg) }
func (l *entryLogger) Warn(msg string, _ ...any)  { l.entries = append(l.entries, msg) }
func (l *entryLogger) Error(msg string, _ ...any) { l.entries = append(l.entries, msg) }
func (l *entryLogger) Fatal(msg string, _ ...any) { l.entries = append(l.entries, msg) }

func (l *entryLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *entryLogger) WithFields(fields map[string]any) interfaces.Logger {
	if l.fields == nil {
		l.fields = map[string]any{}
	}
	for k, v := range fields {
		l.fields[k] = v
	}
	return l
}

func TestDefaultTelemetryAttachesFieldsToExplicitLogger(t *testing.T) {
	logger := &entryLogger{}
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	},
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		WithTelemetry(DefaultTelemetry[testMessage](logger)),
	)

	if err := h.Execute(context.Background(), testMessage{Path: "docs/a.mdx"}); err == nil {
		t.Fatalf("expected the execution error")
	}
	if logger.fields["path"] != "docs/a.mdx" || logger.fields["command"] != "mdx.test.message" {
		t.Fatalf("expected message fields on the telemetry logger, got %+v", logger.fields)
	}
	if len(logger.entries) != 1 || logger.entries[0] != "command.execute.failed" {
		t.Fatalf("unexpected entries %v", logger.entries)
	}
}
