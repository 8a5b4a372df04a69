package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-mdx/internal/diag"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

// Config controls how the service discovers and parses source files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service pairs a filesystem loader with a parser for batch builds.
type Service struct {
	cfg    Config
	parser *Parser
	loader *Loader
}

// NewService constructs a service rooted at cfg.BasePath. When parser is nil,
// one is built from cfg.Parser.
func NewService(cfg Config, parser *Parser) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	if parser == nil {
		parser = NewParser(cfg.Parser)
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: loader,
	}, nil
}

// Load reads a single document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	return s.loader.LoadFile(ctx, s.normalisePath(path))
}

// LoadDirectory reads every matching document within dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return s.loader.LoadDirectory(ctx, s.normalisePath(dir), opts)
}

// Parse scans source into a goldmark tree, recording diagnostics in collector.
func (s *Service) Parse(ctx context.Context, source []byte, collector *diag.Collector) (*Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if collector == nil {
		return nil, errors.New("markdown service: collector is nil")
	}
	return s.parser.Parse(source, collector), nil
}

// ParseDocument parses a loaded document.
func (s *Service) ParseDocument(ctx context.Context, doc *interfaces.Document, collector *diag.Collector) (*Document, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	parsed, err := s.Parse(ctx, doc.Source, collector)
	if err != nil {
		return nil, fmt.Errorf("markdown parse document %s: %w", doc.FilePath, err)
	}
	return parsed, nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
