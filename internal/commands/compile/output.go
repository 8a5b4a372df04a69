package compilecmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SourceReader loads document sources.
type SourceReader interface {
	ReadSource(ctx context.Context, path string) ([]byte, error)
}

// OutputWriter persists generated modules.
type OutputWriter interface {
	WriteOutput(ctx context.Context, path string, code []byte) error
}

// FileSystem reads sources from and writes modules to the local disk.
type FileSystem struct {
	// Perm is applied to written modules; zero selects 0o644.
	Perm fs.FileMode
}

// ReadSource implements SourceReader.
func (f FileSystem) ReadSource(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return data, nil
}

// WriteOutput implements OutputWriter, creating parent directories as needed.
func (f FileSystem) WriteOutput(ctx context.Context, path string, code []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	perm := f.Perm
	if perm == 0 {
		perm = 0o644
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, code, perm); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

var (
	_ SourceReader = FileSystem{}
	_ OutputWriter = FileSystem{}
)
