package compilecmd

import (
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const compileFileMessageType = "mdx.compile_file"

// CompileOptions overrides the compiler defaults for a single file. Nil
// fields keep the compiler's configuration.
type CompileOptions struct {
	SkipExport  *bool `json:"skip_export,omitempty"`
	Development *bool `json:"development,omitempty"`
}

// CompileFileCommand compiles one document and writes the generated module.
type CompileFileCommand struct {
	// Path names the source document. It is read when Source is empty and is
	// always used for diagnostics.
	Path string `json:"path"`
	// Source, when set, is compiled instead of the file contents.
	Source []byte `json:"source,omitempty"`
	// OutPath overrides where the module is written. Defaults to Path with a
	// .js extension.
	OutPath string         `json:"out_path,omitempty"`
	Options CompileOptions `json:"options"`
}

// Type implements command.Message.
func (CompileFileCommand) Type() string { return compileFileMessageType }

// Validate ensures the command names a document and a distinct output.
func (cmd CompileFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("mdx.compile_file.path_required", "path is required")
			}
			return nil
		})),
		validation.Field(&cmd.OutPath, validation.By(func(value any) error {
			out := strings.TrimSpace(value.(string))
			if out == "" {
				return nil
			}
			if filepath.Clean(out) == filepath.Clean(cmd.Path) {
				return validation.NewError("mdx.compile_file.out_path_overwrites_source", "out_path must differ from path")
			}
			return nil
		})),
	)
}

// OutputPath returns where the module for cmd is written.
func (cmd CompileFileCommand) OutputPath() string {
	if out := strings.TrimSpace(cmd.OutPath); out != "" {
		return out
	}
	return DefaultOutputPath(cmd.Path)
}

// DefaultOutputPath swaps the extension of path for .js.
func DefaultOutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".js"
}
