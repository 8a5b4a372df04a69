package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-mdx/pkg/interfaces"
)

// DefaultPattern is the glob used when a loader is configured without one.
const DefaultPattern = "*.mdx"

// skippedDirs are never walked: dependency trees and hidden directories hold
// no documents of the project itself.
var skippedDirs = map[string]struct{}{
	"node_modules": {},
}

// LoaderConfig configures document discovery.
type LoaderConfig struct {
	BasePath string
	// Pattern is matched against the file name, or against the slash path
	// relative to the walk root when it contains a "/".
	Pattern   string
	Recursive bool
}

// Loader reads documents from an fs.FS rooted at BasePath.
type Loader struct {
	fsys      fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// NewLoader builds a loader over fsys.
func NewLoader(fsys fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Loader{
		fsys:      fsys,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads one document. The returned FilePath is slash separated and
// relative to the base path.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := l.relative(name)
	if err != nil {
		return nil, err
	}

	info, err := fs.Stat(l.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("mdx loader: stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("mdx loader: %s is a directory", rel)
	}
	source, err := fs.ReadFile(l.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("mdx loader: read %s: %w", rel, err)
	}

	sum := sha256.Sum256(source)
	return &interfaces.Document{
		FilePath:     rel,
		Source:       source,
		LastModified: info.ModTime(),
		Checksum:     sum[:],
	}, nil
}

// LoadDirectory reads every document under dir matching the pattern, in path
// order. opts override the configured pattern and recursion.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := l.relative(dir)
	if err != nil {
		return nil, err
	}

	recursive := l.recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}
	pattern := l.pattern
	if p := strings.TrimSpace(opts.Pattern); p != "" {
		pattern = p
	}

	var paths []string
	err = fs.WalkDir(l.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == root {
				return nil
			}
			if !recursive || skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if matchPattern(pattern, root, p) {
			paths = append(paths, p)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)
	docs := make([]*interfaces.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := l.LoadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func skipDir(name string) bool {
	if _, ok := skippedDirs[name]; ok {
		return true
	}
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// matchPattern supports a leading "**/" as "any directory".
func matchPattern(pattern, root, p string) bool {
	pattern = strings.ReplaceAll(filepath.ToSlash(pattern), "**/", "")
	target := path.Base(p)
	if strings.Contains(pattern, "/") {
		target = strings.TrimPrefix(p, root+"/")
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

// relative converts name to a slash path inside the loader's filesystem.
func (l *Loader) relative(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" || l.basePath == "." {
			return "", fmt.Errorf("mdx loader: absolute path %s without a base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("mdx loader: %s is outside %s: %w", name, l.basePath, err)
		}
		clean = rel
	}
	return filepath.ToSlash(clean), nil
}
