// Package cli implements wtd's cobra-based command surface: a single root
// command that parses a repo specifier, reconciles worktree/image/
// container state, and attaches a shell or runs a one-shot command.
//
// Adapted from the teacher's internal/cli/root.go: SilenceUsage/
// SilenceErrors plus a CLIError-aware Execute wrapper that maps named
// error kinds to process exit codes, generalized from the teacher's
// single model.ExitGeneralError fallback to clierr's full exit-code table.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wtd/internal/clierr"
	"github.com/mmr-tortoise/wtd/internal/wlog"
)

// Version, Commit, and Date are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type rootFlags struct {
	install     bool
	rebuild     bool
	noCache     bool
	noGUI       bool
	noGPU       bool
	noContainer bool
	noDocker    bool
	extensions  []string
	prune       string
	extList     bool
	builder     string
	platforms   string
	logLevel    string
}

// NewRootCommand creates the root cobra command shared by the wtd and wt
// binary entry points.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "wtd <owner>/<repo>[@branch][#subfolder] [-- <command>...]",
		Short: "Reconcile a worktree, container image, and container for a GitHub repo",
		Long: `wtd reconciles three things for a given repo specifier: a Git worktree
rooted in a shared bare clone, a composable container image built from an
extension dependency graph, and a long-lived container attached to the
worktree — then attaches an interactive shell, or runs a one-shot command
when invoked as "wtd <spec> -- <command>...".`,

		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := wlog.ParseLevel(flags.logLevel)
			if err != nil {
				return clierr.Usage(err.Error())
			}
			wlog.Init(level)

			if flags.extList {
				return runExtList(cmd.Context())
			}
			if cmd.Flags().Changed("prune") {
				return runPrune(cmd.Context(), flags.prune)
			}

			if len(args) == 0 {
				return clierr.Usage("expected <owner>/<repo>[@branch][#subfolder]")
			}

			dashAt := cmd.ArgsLenAtDash()
			spec := args[0]
			var command []string
			if dashAt >= 0 {
				command = args[dashAt:]
			} else if len(args) > 1 {
				return clierr.Usage("unexpected extra arguments; use -- to separate a command")
			}

			return runReconcile(cmd.Context(), spec, command, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.install, "install", false, "sync the worktree and write the generated build files; does not build the image, create a container, or attach")
	cmd.Flags().BoolVar(&flags.rebuild, "rebuild", false, "force a fresh image build")
	cmd.Flags().BoolVar(&flags.noCache, "nocache", false, "disable the buildx cache")
	cmd.Flags().BoolVar(&flags.noGUI, "no-gui", false, "exclude GUI-bundled extensions")
	cmd.Flags().BoolVar(&flags.noGPU, "no-gpu", false, "exclude GPU-bundled extensions")
	cmd.Flags().BoolVar(&flags.noContainer, "no-container", false, "stop after worktree readiness; skip image/container actions")
	cmd.Flags().BoolVar(&flags.noDocker, "no-docker", false, "alias of --no-container")
	cmd.Flags().StringArrayVarP(&flags.extensions, "ext", "e", nil, "request an extension by name (repeatable)")
	cmd.Flags().StringVar(&flags.prune, "prune", "", "remove containers for a spec, or every orphaned container if no value is given")
	cmd.Flags().Lookup("prune").NoOptDefVal = " "
	cmd.Flags().BoolVar(&flags.extList, "ext-list", false, "list the effective extension catalog and exit")
	cmd.Flags().StringVar(&flags.builder, "builder", "", "docker buildx builder name")
	cmd.Flags().StringVar(&flags.platforms, "platforms", "", "comma-separated buildx target platforms")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "debug, info, warn, or error")

	cmd.AddCommand(newCompletionCommand())

	return cmd
}

// Execute runs the root command and maps any returned error to a process
// exit code: a *clierr.CLIError carries its own code; any other error
// exits 1.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		var cliErr *clierr.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr)
			os.Exit(int(cliErr.Code))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printError(err *clierr.CLIError) {
	if err.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", err.Message, err.Err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)
}
