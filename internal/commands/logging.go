package commands

import (
	"strings"

	"github.com/goliatone/go-mdx/internal/logging"
	"github.com/goliatone/go-mdx/pkg/interfaces"
)

const commandsModule = "mdx.commands"

// CommandLogger scopes a logger to one command family: "compile" logs under
// mdx.commands.compile and tags every entry with command_family.
func CommandLogger(provider interfaces.LoggerProvider, family string) interfaces.Logger {
	family = strings.ToLower(strings.TrimSpace(family))
	if family == "" {
		return logging.ModuleLogger(provider, commandsModule)
	}
	logger := logging.ModuleLogger(provider, commandsModule+"."+family)
	return logging.WithFields(logger, map[string]any{"command_family": family})
}
