package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-mdx"
	"github.com/goliatone/go-mdx/internal/di"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("mdx: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mdx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "Path to an mdx.config.json file")
	components := fs.String("components", "", "Comma separated component names supplied by the host")
	skipExport := fs.Bool("skip-export", false, "Emit the content function without the default export")
	development := fs.Bool("development", false, "Attach source locations to every element")
	provider := fs.String("provider", "", "Import the pragma function from this module")
	pattern := fs.String("pattern", "", "Glob pattern applied when compiling directories")
	dump := fs.Bool("dump", false, "Print compiled modules to stdout instead of writing .js files")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := mdx.DefaultConfig()
	if *configPath != "" {
		loaded, err := mdx.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if *components != "" {
		cfg.Compiler.Components = splitList(*components)
	}
	if *skipExport {
		cfg.Compiler.SkipExport = true
	}
	if *development {
		cfg.Compiler.Development = true
	}
	if *provider != "" {
		cfg.Compiler.ProviderImportSource = *provider
	}
	if *pattern != "" {
		cfg.Markdown.Pattern = *pattern
	}

	var opts []di.Option
	if *dump {
		opts = append(opts, di.WithOutputWriter(&dumpWriter{out: stdout}))
	}

	targets := fs.Args()
	if len(targets) == 0 {
		targets = []string{cfg.Markdown.ContentDir}
	}

	compiled := 0
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			module, err := mdx.New(cfg, opts...)
			if err != nil {
				return err
			}
			if err := compileFile(ctx, module, target); err != nil {
				return err
			}
			compiled++
			continue
		}

		dirCfg := cfg
		dirCfg.Markdown.ContentDir = target
		module, err := mdx.New(dirCfg, opts...)
		if err != nil {
			return err
		}
		docs, err := module.Documents()
		if err != nil {
			return fmt.Errorf("discover documents: %w", err)
		}
		found, err := docs.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
		if err != nil {
			return fmt.Errorf("discover documents in %s: %w", target, err)
		}
		for _, doc := range found {
			if err := module.CompileFile(ctx, mdx.CompileFileCommand{
				Path:   filepath.Join(target, filepath.FromSlash(doc.FilePath)),
				Source: doc.Source,
			}); err != nil {
				return err
			}
			compiled++
		}
	}

	if !*dump {
		fmt.Fprintf(stdout, "compiled %d document(s)\n", compiled)
	}
	return nil
}

func compileFile(ctx context.Context, module *mdx.Module, path string) error {
	err := module.CompileFile(ctx, mdx.CompileFileCommand{Path: path})
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return err
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// dumpWriter prints each module under a path banner.
type dumpWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *dumpWriter) WriteOutput(ctx context.Context, path string, code []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.out, "// %s\n", filepath.ToSlash(path)); err != nil {
		return err
	}
	_, err := w.out.Write(code)
	return err
}
