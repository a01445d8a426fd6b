package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRoot assembles the timetabler command tree.
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "timetabler",
		Short:         "Greedy lecture timetable allocator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
