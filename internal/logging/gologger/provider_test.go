package gologger

import (
	"context"
	"strings"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-mdx/internal/logging"
)

func TestNewProviderFormats(t *testing.T) {
	for _, format := range []string{"", "json", "Console", " pretty "} {
		p, err := NewProvider(Config{Level: "debug", Format: format, Focus: []string{" mdx.compiler ", ""}})
		if err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
		logger := p.GetLogger("mdx.compiler")
		if _, ok := logger.(*adapter); !ok {
			t.Fatalf("format %q: expected an adapter, got %T", format, logger)
		}
		logging.WithFields(logger, map[string]any{"compile_id": "c-1"}).Debug("compile.start")
	}

	_, err := NewProvider(Config{Format: "xml"})
	if err == nil || !strings.Contains(err.Error(), `"xml"`) {
		t.Fatalf("expected the unsupported format to be named, got %v", err)
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	if got := p.GetLogger("mdx"); got != logging.NoOp() {
		t.Fatalf("expected the no-op logger, got %T", got)
	}
}

func TestAdapterForwardsCompilerEntries(t *testing.T) {
	inner := &recorder{}
	logger, ok := wrap(inner).(*adapter)
	if !ok {
		t.Fatalf("expected an adapter")
	}

	logger.Trace("compile.stage", "stage", "parse")
	logger.Debug("compile.start")
	logger.Info("compile.success")
	logger.Warn("compile.warning")
	logger.Error("compile.failed")
	logger.Fatal("compile.panic")
	if got := strings.Join(inner.entries, ","); got != "trace:compile.stage,debug:compile.start,info:compile.success,warn:compile.warning,error:compile.failed,fatal:compile.panic" {
		t.Fatalf("unexpected entries %s", got)
	}

	fields := map[string]any{"document_path": "a.mdx"}
	logger.WithFields(fields)
	fields["document_path"] = "b.mdx"
	if len(inner.fields) != 1 || inner.fields[0]["document_path"] != "a.mdx" {
		t.Fatalf("fields should be copied before forwarding, got %v", inner.fields)
	}
	if logger.WithFields(nil) != logger {
		t.Fatalf("empty fields should return the same logger")
	}

	ctx := logging.ContextWithDocument(context.Background(), "a.mdx")
	logger.WithContext(ctx)
	if len(inner.contexts) != 1 || inner.contexts[0] != ctx {
		t.Fatalf("expected the context to reach go-logger, got %v", inner.contexts)
	}
}

type recorder struct {
	entries  []string
	fields   []map[string]any
	contexts []context.Context
}

var (
	_ glog.Logger       = (*recorder)(nil)
	_ glog.FieldsLogger = (*recorder)(nil)
)

func (r *recorder) log(level, msg string) { r.entries = append(r.entries, level+":"+msg) }

func (r *recorder) Trace(msg string, _ ...any) { r.log("trace", msg) }
func (r *recorder) Debug(msg string, _ ...any) { r.log("debug", msg) }
func (r *recorder) Info(msg string, _ ...any)  { r.log("info", msg) }
func (r *recorder) Warn(msg string, _ ...any)  { r.log("warn", msg) }
func (r *recorder) Error(msg string, _ ...any) { r.log("error", msg) }
func (r *recorder) Fatal(msg string, _ ...any) { r.log("fatal", msg) }

func (r *recorder) WithContext(ctx context.Context) glog.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

func (r *recorder) WithFields(fields map[string]any) glog.Logger {
	r.fields = append(r.fields, fields)
	return r
}
