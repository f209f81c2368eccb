// Package cli provides the command-line interface for cncc.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/cncc/internal/cli/commands"
	"github.com/leapstack-labs/cncc/internal/cli/config"
	"github.com/leapstack-labs/cncc/internal/cli/output"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile   string
		listKinds bool
	)

	rootCmd := &cobra.Command{
		Use:   "cncc [flags] [files...]",
		Short: "cncc - C/C++ naming convention checker",
		Long: `cncc checks the names of declarations in C and C++ sources against
the naming rules of a style file.

Each rule pairs a declaration kind (see --list-kinds) with a regular
expression the whole name must match, optionally limited to one access
level. Declarations outside the files named on the command line, such as
those in system headers, are never reported.`,
		Example: `  cncc --style project.style --dbdir build src/*.cc
  cncc --list-kinds`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}
			// --list-kinds and an empty file list never touch configuration
			if listKinds || (cmd == cmd.Root() && len(args) == 0) {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if f := config.GetConfigFileUsed(); f != "" {
				logger.Debug("using config file", "path", f)
			}

			ctx := config.WithLogger(cmd.Context(), logger)
			ctx = context.WithValue(ctx, configKey{}, cfg)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if listKinds {
				return commands.ListKinds(cmd.OutOrStdout())
			}
			if len(args) == 0 {
				return nil
			}
			cc := commands.NewCommandContext(cmd, GetConfig(cmd.Context()))
			return commands.RunScan(cmd.Context(), cc, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./.cncc.yaml)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|plain|json)")

	// Scan flags
	f := rootCmd.Flags()
	f.String("style", "", "Style file with naming rules (default: ~/.cncc.style)")
	f.String("dbdir", "", "Directory containing compile_commands.json")
	f.BoolVar(&listKinds, "list-kinds", false, "List the declaration kinds a rule may name and exit")
	f.IntP("jobs", "j", config.DefaultJobs, "Number of files to parse in parallel")
	f.String("clang", "", "clang binary used to parse sources (default: clang)")
	f.StringArray("clang-arg", nil, "Extra argument passed to clang (repeatable)")
	f.String("baseline", "", "SQLite baseline of known violations to suppress")
	f.Bool("update-baseline", false, "Record the current violations in the baseline instead of suppressing them")
	f.Bool("summary", false, "Print a per-rule summary table after the scan")
	f.Bool("fail-on-violation", false, "Exit non-zero when any violation is reported")
	f.BoolP("watch", "w", false, "Re-check inputs as they change")

	_ = rootCmd.MarkFlagFilename("style")
	_ = rootCmd.MarkFlagDirname("dbdir")
	_ = rootCmd.MarkFlagFilename("baseline")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger builds the process logger. Diagnostics and debug output go to
// stderr; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Style:        config.DefaultStylePath(),
		Jobs:         config.DefaultJobs,
		OutputFormat: config.DefaultOutput,
		Clang:        config.DefaultClang,
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cncc.

To load completions:

Bash:
  $ source <(cncc completion bash)

Zsh:
  $ cncc completion zsh > "${fpath[1]}/_cncc"

Fish:
  $ cncc completion fish | source

PowerShell:
  PS> cncc completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
