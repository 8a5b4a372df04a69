package mdx

import "github.com/goliatone/go-mdx/internal/runtimeconfig"

var (
	ErrComponentNameInvalid        = runtimeconfig.ErrComponentNameInvalid
	ErrProviderImportSourceInvalid = runtimeconfig.ErrProviderImportSourceInvalid
	ErrMarkdownExtensionUnknown    = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrMarkdownPatternInvalid      = runtimeconfig.ErrMarkdownPatternInvalid
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	CompilerConfig       = runtimeconfig.CompilerConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads an mdx.config.json file, validating it against the
// embedded schema and then semantically.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(data []byte) (Config, error) {
	return runtimeconfig.Parse(data)
}
