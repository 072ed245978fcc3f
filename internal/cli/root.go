// Package cli provides the command-line interface for csvify.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/csvify/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command line args with the given streams and returns the
// exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = 0

	if args == nil {
		args = []string{}
	}

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors is set, so report here.
		_, _ = fmt.Fprintf(stderr, "csvify: %s\n", commands.ErrorMessage(err))
		return commands.ExitCodeFor(err)
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csvify [flags] FILE...",
		Short: "Pad combat log records into a rectangular CSV",
		Long: `csvify turns comma-separated combat logs into spreadsheet-ready CSV.

Fields are split on top-level commas only: commas inside [ ] belong to the
field. A first pass finds the widest record across all inputs; a second pass
writes every record with trailing empty columns up to that width. One extra
column is reserved because the first field packs a timestamp and an event.

Output goes to stdout unless --out-dir is given. With --format xlsx the rows
are written to a workbook instead, one sheet per input.

An input named like a subcommand (count, check, config, version) is taken as
that subcommand. Give it with a path instead, e.g. ./count.

Exit codes:
  0     - Success
  1     - Malformed input or write failure
  2     - Usage or configuration error
  errno - I/O failure with an OS error number`,
		Args:          commands.RequireFiles,
		RunE:          commands.RunConvert,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.AddConfigFlags(rootCmd.PersistentFlags())
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &commands.UsageError{Err: err}
	})

	rootCmd.AddCommand(commands.NewCountCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
