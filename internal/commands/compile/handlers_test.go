package compilecmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdx/internal/compiler"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

type memoryWriter struct {
	mu      sync.Mutex
	outputs map[string]string
	err     error
}

func (w *memoryWriter) WriteOutput(_ context.Context, path string, code []byte) error {
	if w.err != nil {
		return w.err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outputs == nil {
		w.outputs = map[string]string{}
	}
	w.outputs[path] = string(code)
	return nil
}

func TestCompileFileHandlerReadsAndWrites(t *testing.T) {
	writer := &memoryWriter{}
	var compiled *interfaces.CompiledDocument
	h := NewCompileFileHandler(Config{
		Compiler:   compiler.New(compiler.Options{}),
		Writer:     writer,
		OnCompiled: func(doc *interfaces.CompiledDocument) { compiled = doc },
	})

	path := filepath.Join("testdata", "report.mdx")
	if err := h.Execute(context.Background(), CompileFileCommand{Path: path}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	code, ok := writer.outputs[filepath.Join("testdata", "report.js")]
	if !ok {
		t.Fatalf("expected output next to the source, got %v", writer.outputs)
	}
	for _, fragment := range []string{`import Chart from "./chart"`, `mdx(Chart, {`, `mdxType: "Chart"`, `MDXContent.displayName = "Report";`} {
		if !strings.Contains(code, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, code)
		}
	}
	if compiled == nil || compiled.FilePath != path {
		t.Fatalf("OnCompiled not invoked with the document: %+v", compiled)
	}
}

func TestCompileFileHandlerPrefersInlineSource(t *testing.T) {
	writer := &memoryWriter{}
	skip := true
	h := NewCompileFileHandler(Config{Compiler: compiler.New(compiler.Options{}), Writer: writer})

	err := h.Execute(context.Background(), CompileFileCommand{
		Path:    "missing/doc.mdx",
		Source:  []byte("*hi*"),
		OutPath: "out/doc.js",
		Options: CompileOptions{SkipExport: &skip},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	code := writer.outputs["out/doc.js"]
	if strings.Contains(code, "export default") || strings.Contains(code, "displayName") || !strings.Contains(code, `mdx("em", {`) {
		t.Fatalf("unexpected output:\n%s", code)
	}
}

func TestCompileFileHandlerCategorisesSyntaxErrors(t *testing.T) {
	writer := &memoryWriter{}
	h := NewCompileFileHandler(Config{Compiler: compiler.New(compiler.Options{}), Writer: writer})

	err := h.Execute(context.Background(), CompileFileCommand{Path: "doc.mdx", Source: []byte("Hello {world\n")})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	var wrapped *goerrors.Error
	if !errors.As(err, &wrapped) || wrapped.TextCode != SyntaxErrorCode {
		t.Fatalf("expected %s text code, got %v", SyntaxErrorCode, err)
	}
	if !strings.Contains(err.Error(), "doc.mdx:1:7") {
		t.Fatalf("expected location in %q", err.Error())
	}
	if len(writer.outputs) != 0 {
		t.Fatalf("nothing should be written on failure, got %v", writer.outputs)
	}
}

func TestCompileFileHandlerWrapsIOErrors(t *testing.T) {
	h := NewCompileFileHandler(Config{
		Compiler: compiler.New(compiler.Options{}),
		Writer:   &memoryWriter{err: errors.New("disk full")},
	})

	err := h.Execute(context.Background(), CompileFileCommand{Path: "doc.mdx", Source: []byte("# x")})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}

	err = h.Execute(context.Background(), CompileFileCommand{Path: filepath.Join(t.TempDir(), "nope.mdx")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestCompileFileHandlerRejectsInvalidMessages(t *testing.T) {
	h := NewCompileFileHandler(Config{Compiler: compiler.New(compiler.Options{}), Writer: &memoryWriter{}})

	for _, msg := range []CompileFileCommand{
		{},
		{Path: "  "},
		{Path: "a.mdx", OutPath: "./a.mdx"},
	} {
		if err := h.Execute(context.Background(), msg); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("expected validation error for %+v, got %v", msg, err)
		}
	}
}

func TestFileSystemWritesIntoNewDirectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "doc.js")
	if err := (FileSystem{}).WriteOutput(context.Background(), out, []byte("x")); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	data, err := (FileSystem{}).ReadSource(context.Background(), out)
	if err != nil || string(data) != "x" {
		t.Fatalf("ReadSource = %q, %v", data, err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := map[string]string{
		"docs/a.mdx":   "docs/a.js",
		"b.md":         "b.js",
		"no-extension": "no-extension.js",
	}
	for in, want := range tests {
		if got := DefaultOutputPath(in); got != want {
			t.Fatalf("DefaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}
