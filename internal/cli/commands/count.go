package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/csvify/pkg/config"
	"github.com/ccollicutt/csvify/pkg/output"
	"github.com/ccollicutt/csvify/pkg/width"
)

// ReportOptions holds command-line options for the count and check commands.
type ReportOptions struct {
	Output string
	Quiet  bool

	// Headers enables timestamp header checks (check only).
	Headers bool
}

func addReportFlags(cmd *cobra.Command, opts *ReportOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|yaml)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
}

// newReportFormatter selects the report formatter. Debug logging (-v) also
// turns on the verbose report details.
func newReportFormatter(cfg *config.Config, opts *ReportOptions) (output.Formatter, error) {
	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: strings.EqualFold(cfg.LogLevel, "debug"),
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return nil, &UsageError{Err: err}
	}
	return formatter, nil
}

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "count FILE...",
		Short: "Compute the target column count",
		Long: `Run the counting pass only and report the target width.

The width is the largest field count of any record in any input, plus one
column reserved for the timestamp and event that share the first field.

Exit codes:
  0     - Success
  1     - Malformed input
  2     - Usage or configuration error
  errno - I/O failure with an OS error number`,
		Args: RequireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, args, opts)
		},
	}

	addReportFlags(cmd, opts)
	return cmd
}

func runCount(cmd *cobra.Command, args []string, opts *ReportOptions) error {
	ctx := commandContext(cmd)
	start := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	formatter, err := newReportFormatter(cfg, opts)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	files, err := expandInputs(args)
	if err != nil {
		return err
	}

	result, err := width.Count(ctx, files, width.WithLogger(logger), width.WithSourceOptions(sourceOptions(cfg)...))
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, output.NewCountReport(result, start), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}
