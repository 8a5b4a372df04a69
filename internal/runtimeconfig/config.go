package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-mdx/internal/ident"
	"github.com/goliatone/go-mdx/internal/markdown"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

var ErrComponentNameInvalid = errors.New("mdx config: component name is not a valid identifier")
var ErrProviderImportSourceInvalid = errors.New("mdx config: provider import source must not contain quotes or line breaks")
var ErrMarkdownExtensionUnknown = errors.New("mdx config: markdown extension is unknown")
var ErrMarkdownPatternInvalid = errors.New("mdx config: markdown pattern is invalid")
var ErrLoggingProviderRequired = errors.New("mdx config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("mdx config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mdx config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mdx config: logging format is invalid")

// Config aggregates compiler options, source discovery and logging.
type Config struct {
	Compiler CompilerConfig `json:"compiler"`
	Markdown MarkdownConfig `json:"markdown"`
	Logging  LoggingConfig  `json:"logging"`
	Features Features       `json:"features"`
}

// CompilerConfig mirrors the options accepted by a single compilation.
type CompilerConfig struct {
	// Components lists names known to be provided at runtime; they are
	// never given a makeShortcode fallback.
	Components           []string `json:"components,omitempty"`
	SkipExport           bool     `json:"skip_export,omitempty"`
	ProviderImportSource string   `json:"provider_import_source,omitempty"`
	Development          bool     `json:"development,omitempty"`
	Pragma               bool     `json:"pragma"`
}

// MarkdownConfig captures where source documents live and how the host
// grammar is configured.
type MarkdownConfig struct {
	ContentDir string               `json:"content_dir,omitempty"`
	Pattern    string               `json:"pattern,omitempty"`
	Recursive  bool                 `json:"recursive"`
	Parser     MarkdownParserConfig `json:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions    []string `json:"extensions,omitempty"`
	AutoHeadingID bool     `json:"auto_heading_id,omitempty"`
	HardWraps     bool     `json:"hard_wraps,omitempty"`
}

// ParseOptions converts the parser section into parser options.
func (c MarkdownParserConfig) ParseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions:    append([]string(nil), c.Extensions...),
		AutoHeadingID: c.AutoHeadingID,
		HardWraps:     c.HardWraps,
	}
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool `json:"logger,omitempty"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `json:"provider,omitempty"`
	Level     string   `json:"level,omitempty"`
	Format    string   `json:"format,omitempty"`
	AddSource bool     `json:"add_source,omitempty"`
	Focus     []string `json:"focus,omitempty"`
}

// DefaultConfig returns the defaults used by the CLI and the root package.
func DefaultConfig() Config {
	return Config{
		Compiler: CompilerConfig{
			Pragma: true,
		},
		Markdown: MarkdownConfig{
			ContentDir: ".",
			Pattern:    "*.mdx",
			Recursive:  true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	for _, name := range cfg.Compiler.Components {
		if !validComponentName(name) {
			return fmt.Errorf("%w: %q", ErrComponentNameInvalid, name)
		}
	}
	if strings.ContainsAny(cfg.Compiler.ProviderImportSource, "\"'`\r\n") {
		return fmt.Errorf("%w: %q", ErrProviderImportSourceInvalid, cfg.Compiler.ProviderImportSource)
	}
	for _, ext := range cfg.Markdown.Parser.Extensions {
		if !markdown.KnownExtension(ext) {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, ext)
		}
	}
	if pattern := strings.TrimSpace(cfg.Markdown.Pattern); pattern != "" {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: %s", ErrMarkdownPatternInvalid, pattern)
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// validComponentName accepts plain identifiers and dotted member paths.
func validComponentName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if !ident.IsValid(part) {
			return false
		}
	}
	return true
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
