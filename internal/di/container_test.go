package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	compilecmd "github.com/goliatone/go-mdx/internal/commands/compile"
	"github.com/goliatone/go-mdx/internal/di"
	"github.com/goliatone/go-mdx/internal/runtimeconfig"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

func (l *recordingLogger) log(level, msg string, args []any) {
	fields := map[string]any{}
	for k, v := range l.fields {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	l.provider.entries = append(l.provider.entries, recordedEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("trace", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("fatal", msg, args) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

type memoryWriter struct {
	outputs map[string]string
}

func (w *memoryWriter) WriteOutput(_ context.Context, path string, code []byte) error {
	if w.outputs == nil {
		w.outputs = map[string]string{}
	}
	w.outputs[path] = string(code)
	return nil
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Compiler.Components = []string{"not valid"}
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrComponentNameInvalid) {
		t.Fatalf("expected ErrComponentNameInvalid, got %v", err)
	}
}

func TestContainerWiresLoggingThroughCompileHandler(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Compiler.Components = []string{"Chart"}
	rec := &recordingProvider{}
	writer := &memoryWriter{}

	c, err := di.NewContainer(cfg,
		di.WithLoggerProvider(rec),
		di.WithOutputWriter(writer),
		di.WithIDGenerator(func() string { return "id-1" }),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	err = c.CompileHandler().Execute(context.Background(), compilecmd.CompileFileCommand{
		Path:   "a.mdx",
		Source: []byte("<Chart />\n"),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(writer.outputs["a.js"], "makeShortcode") {
		t.Fatalf("configured components must not get shortcodes:\n%s", writer.outputs["a.js"])
	}

	success := rec.find("compile.success")
	if success == nil {
		t.Fatalf("expected compile.success from the compiler logger")
	}
	if success.fields["logger"] != "mdx.compiler" || success.fields["compile_id"] != "id-1" {
		t.Fatalf("unexpected compile.success fields %v", success.fields)
	}
	if rec.find("mdx.command.compile_file.completed") == nil {
		t.Fatalf("expected the command completion entry")
	}
}

func TestContainerBuildsProvidersFromConfig(t *testing.T) {
	for _, provider := range []string{"console", "gologger"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Features.Logger = true
		cfg.Logging.Provider = provider
		cfg.Logging.Level = "error"

		c, err := di.NewContainer(cfg)
		if err != nil {
			t.Fatalf("NewContainer(%s): %v", provider, err)
		}
		if c.LoggerProvider() == nil {
			t.Fatalf("expected a %s provider", provider)
		}
	}

	c, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.LoggerProvider() != nil {
		t.Fatalf("logging is disabled by default")
	}
}

func TestContainerDocuments(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.mdx"), []byte("# A"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.ContentDir = dir

	c, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	docs, err := c.Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	loaded, err := docs.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(loaded) != 1 || loaded[0].FilePath != "a.mdx" {
		t.Fatalf("unexpected documents %+v", loaded)
	}
}

func TestCompilerOptionsFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Compiler.ProviderImportSource = "@mdx-js/react"
	cfg.Markdown.Parser.HardWraps = true

	opts := di.CompilerOptions(cfg)
	if opts.ProviderImportSource != "@mdx-js/react" || !opts.Markdown.HardWraps || !opts.Pragma {
		t.Fatalf("unexpected options %+v", opts)
	}
}
