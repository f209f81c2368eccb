// Package commands holds the bodies of the cncc commands. The cli package
// wires them to cobra.
package commands

import (
	"log/slog"

	"github.com/leapstack-labs/cncc/internal/cli/config"
	"github.com/leapstack-labs/cncc/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext writing to the command's
// output streams with the configured output mode.
func NewCommandContext(cmd *cobra.Command, cfg *config.Config) *CommandContext {
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}
