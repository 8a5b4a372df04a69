package interfaces

import "context"

// DocumentCompiler compiles a single hybrid Markdown document into a
// component module. Build adapters depend on this contract rather than on the
// concrete compiler.
type DocumentCompiler interface {
	CompileDocument(ctx context.Context, req CompileRequest) (*CompiledDocument, error)
}

// CompileRequest carries one document. Nil overrides keep the compiler's
// configured behaviour.
type CompileRequest struct {
	FilePath    string
	Source      []byte
	SkipExport  *bool
	Development *bool
}

// CompiledDocument is the generated module plus the warnings raised while
// producing it.
type CompiledDocument struct {
	FilePath  string
	Code      string
	CompileID string
	Warnings  []CompileWarning
}

// CompileWarning is a non-fatal, positioned compiler message.
type CompileWarning struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
	Source  string `json:"source,omitempty"`
}
