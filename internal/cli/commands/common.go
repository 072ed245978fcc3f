package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ccollicutt/csvify/pkg/config"
	"github.com/ccollicutt/csvify/pkg/pad"
	"github.com/ccollicutt/csvify/pkg/source"
)

// AddConfigFlags registers the flags that map onto configuration keys.
// Only flags the user sets override the config file and environment.
func AddConfigFlags(flags *pflag.FlagSet) {
	d := config.DefaultConfig()
	flags.String("config", "", "Config file (YAML)")
	flags.String("format", d.Format, "Output format (csv|xlsx)")
	flags.String("out-dir", d.OutDir, "Write one output file per input into this directory")
	flags.String("suffix", d.Suffix, "Output file name suffix (default .csv or .xlsx)")
	flags.Int("max-depth", d.MaxDepth, "Maximum bracket nesting depth (1-255)")
	flags.Int("max-line-size", d.MaxLineSize, "Maximum input line length in bytes, excluding the line terminator")
	flags.String("overflow", d.Overflow, "Policy for records wider than the target width (error|truncate|widen)")
	flags.Bool("split-event", d.SplitEvent, "Split the leading timestamp and event into two columns")
	flags.Bool("decode-bom", d.DecodeBOM, "Strip a UTF-8 BOM and transcode UTF-16 input")
	flags.String("log-level", d.LogLevel, "Log level (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Verbose logging (same as --log-level debug)")
}

// loadConfig builds the effective configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, &UsageError{Err: err}
	}
	return cfg, nil
}

// newLogger creates the stderr logger for cfg.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func sourceOptions(cfg *config.Config) []source.Option {
	return []source.Option{
		source.WithMaxDepth(uint8(cfg.MaxDepth)),
		source.WithMaxLineSize(cfg.MaxLineSize),
		source.WithBOMDecoding(cfg.DecodeBOM),
	}
}

func padOptions(cfg *config.Config, logger *slog.Logger) []pad.Option {
	policy, err := pad.ParseOverflowPolicy(cfg.Overflow)
	if err != nil {
		policy = pad.OverflowFail
	}
	return []pad.Option{
		pad.WithOverflow(policy),
		pad.WithEventSplit(cfg.SplitEvent),
		pad.WithLogger(logger),
	}
}

// RequireFiles is a cobra.PositionalArgs that demands at least one input.
func RequireFiles(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &UsageError{Err: fmt.Errorf("%s: at least one input file is required", cmd.CommandPath())}
	}
	return nil
}

// expandInputs turns the positional arguments into the ordered input list.
func expandInputs(args []string) ([]string, error) {
	files, err := source.ExpandGlobs(args)
	if err != nil {
		return nil, &UsageError{Err: fmt.Errorf("expanding inputs: %w", err)}
	}
	if len(files) == 0 {
		return nil, &UsageError{Err: fmt.Errorf("no input files matched: %v", args)}
	}
	return files, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// noArgs is cobra.NoArgs reported as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}
