package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo is the version information stamped at build time.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display cncc version and build information.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cncc v%s\n", info.Version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s\n", info.GitCommit, info.BuildDate)
		},
	}
}
