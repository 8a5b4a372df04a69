package runtimeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goliatone/go-mdx/internal/validation"
)

// Parse decodes an mdx.config.json document over DefaultConfig. The document
// is checked against the embedded schema before decoding and the result is
// validated afterwards.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := validation.ValidateConfig(data); err != nil {
		return Config{}, fmt.Errorf("mdx config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("mdx config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("mdx config: read %s: %w", path, err)
	}
	return Parse(data)
}
