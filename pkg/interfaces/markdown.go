package interfaces

import "time"

// ParseOptions customises the Markdown host grammar, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	// Extensions lists goldmark extensions by name ("gfm", "table",
	// "strikethrough", "linkify", "tasklist", "footnote", "definition").
	// Empty selects the GFM defaults.
	Extensions []string `json:"extensions,omitempty"`
	// AutoHeadingID assigns slug ids to headings.
	AutoHeadingID bool `json:"auto_heading_id,omitempty"`
	// HardWraps turns soft line breaks into `br` elements.
	HardWraps bool `json:"hard_wraps,omitempty"`
}

// Document is a source file discovered on disk.
type Document struct {
	FilePath     string
	Source       []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of Source so build tools can skip
	// unchanged inputs.
	Checksum []byte
}

// LoadOptions fine-tunes how documents are discovered on disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
}
