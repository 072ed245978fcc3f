package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/csvify/pkg/output"
	"github.com/ccollicutt/csvify/pkg/width"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Report every malformed line",
		Long: `Scan inputs and report every line that cannot be tokenized, instead of
stopping at the first one.

Checks:
  - Unmatched ']'
  - '[' left open at end of line
  - Nesting deeper than --max-depth
  - Missing or unparseable timestamp header (with --headers)

Exit codes:
  0     - No issues found
  1     - Issues found
  2     - Usage or configuration error
  errno - I/O failure with an OS error number`,
		Args: RequireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	addReportFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.Headers, "headers", false, "Also check the timestamp and event header of every record")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *ReportOptions) error {
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

	result, err := width.Check(ctx, files,
		width.WithHeaderCheck(opts.Headers),
		width.WithCountOptions(width.WithLogger(logger), width.WithSourceOptions(sourceOptions(cfg)...)))
	if err != nil {
		return err
	}

	report := output.NewCheckReport(result, start)
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasIssues() {
		ExitCode = ExitFailure
	}
	return nil
}
