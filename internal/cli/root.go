// Package cli implements the sos1inspect command-line interface.
//
// Commands:
//   - run: one engine round (presolve, graph build, propagation,
//     enforcement, separation, check) over an instance file
//   - graph: the conflict graph of an instance, by component
//
// All commands accept --verbose (-v) for debug-level engine logs. The
// logger travels through the command context.
package cli

import (
	"context"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Command output goes to out,
// logs to stderr.
func NewRootCommand(out io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "sos1inspect",
		Short:        "Inspect SOS1 constraint reasoning on a problem instance",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newGraphCmd())

	return root
}

// Execute runs the CLI with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout).ExecuteContext(ctx)
}
