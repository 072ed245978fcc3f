package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/csvify/pkg/config"
	"github.com/ccollicutt/csvify/pkg/pad"
	"github.com/ccollicutt/csvify/pkg/source"
	"github.com/ccollicutt/csvify/pkg/width"
)

// ErrTerminalOutput is returned when a binary workbook would be written to a terminal.
var ErrTerminalOutput = errors.New("refusing to write an xlsx workbook to a terminal; redirect stdout or use --out-dir")

// RunConvert counts the target width over all inputs, then writes every
// record padded to that width.
func RunConvert(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	files, err := expandInputs(args)
	if err != nil {
		return err
	}

	c := &converter{
		cfg:     cfg,
		logger:  logger,
		files:   files,
		srcOpts: sourceOptions(cfg),
		padOpts: padOptions(cfg, logger),
		stdout:  cmd.OutOrStdout(),
	}
	if err := c.checkOutputs(); err != nil {
		return err
	}

	result, err := width.Count(ctx, files, width.WithLogger(logger), width.WithSourceOptions(c.srcOpts...))
	if err != nil {
		return err
	}
	c.width = result.Width
	logger.Info("target width", "width", result.Width, "files", len(files), "records", result.Records())

	switch {
	case cfg.OutputFormat() == config.FormatXLSX && cfg.OutDir != "":
		return c.eachOutput(ctx, c.writeXLSXFile)
	case cfg.OutputFormat() == config.FormatXLSX:
		return c.writeXLSXStream(ctx)
	case cfg.OutDir != "":
		return c.eachOutput(ctx, c.writeCSVFile)
	default:
		return c.writeCSVStream(ctx)
	}
}

type converter struct {
	cfg     *config.Config
	logger  *slog.Logger
	files   []string
	width   int
	srcOpts []source.Option
	padOpts []pad.Option
	stdout  io.Writer
}

// outputPath returns DIR/<basename><suffix> for input name.
func (c *converter) outputPath(name string) string {
	return filepath.Join(c.cfg.OutDir, filepath.Base(name)+c.cfg.OutputSuffix())
}

// checkOutputs rejects destinations that cannot work before any input is read.
func (c *converter) checkOutputs() error {
	if c.cfg.OutDir == "" {
		if c.cfg.OutputFormat() == config.FormatXLSX && isTerminal(c.stdout) {
			return &UsageError{Err: ErrTerminalOutput}
		}
		return nil
	}

	inputs := make(map[string]string, len(c.files))
	for _, name := range c.files {
		inputs[absPath(name)] = name
	}

	seen := make(map[string]string, len(c.files))
	for _, name := range c.files {
		out := c.outputPath(name)
		key := absPath(out)
		if prev, ok := seen[key]; ok {
			return &UsageError{Err: fmt.Errorf("inputs %s and %s both write %s", prev, name, out)}
		}
		if in, ok := inputs[key]; ok {
			return &UsageError{Err: fmt.Errorf("output %s for %s would overwrite input %s", out, name, in)}
		}
		if in, ok := c.sameFileInput(out); ok {
			return &UsageError{Err: fmt.Errorf("output %s for %s would overwrite input %s", out, name, in)}
		}
		seen[key] = name
	}
	return nil
}

// sameFileInput reports the input that out already refers to on disk,
// catching links the path comparison misses.
func (c *converter) sameFileInput(out string) (string, bool) {
	outInfo, err := os.Stat(out)
	if err != nil {
		return "", false
	}
	for _, name := range c.files {
		if info, err := os.Stat(name); err == nil && os.SameFile(outInfo, info) {
			return name, true
		}
	}
	return "", false
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (c *converter) pass(ctx context.Context, name string, w pad.RowWriter) error {
	src, err := source.Open(name, c.srcOpts...)
	if err != nil {
		return err
	}
	defer src.Close()

	stats, err := pad.Pass(ctx, src, w, c.width, c.padOpts...)
	if err != nil {
		return err
	}
	c.logger.Debug("padded file", "file", name, "rows", stats.Rows,
		"truncated", stats.Truncated, "widened", stats.Widened)
	return nil
}

func (c *converter) writeCSVStream(ctx context.Context) error {
	w := pad.NewCSVWriter(c.stdout, c.width)
	for _, name := range c.files {
		if err := c.pass(ctx, name, w); err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) eachOutput(ctx context.Context, write func(ctx context.Context, in, out string) error) error {
	if err := os.MkdirAll(c.cfg.OutDir, 0o755); err != nil {
		return err
	}
	for _, name := range c.files {
		out := c.outputPath(name)
		if err := write(ctx, name, out); err != nil {
			return err
		}
		c.logger.Info("wrote output", "input", name, "output", out)
	}
	return nil
}

func (c *converter) writeCSVFile(ctx context.Context, in, out string) (err error) {
	f, err := os.Create(out) // #nosec G304 -- output path is derived from user input
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return c.pass(ctx, in, pad.NewCSVWriter(f, c.width))
}

func (c *converter) writeXLSXFile(ctx context.Context, in, out string) (err error) {
	wb := pad.NewWorkbook()
	defer wb.Close()

	if err := c.addSheet(ctx, wb, in); err != nil {
		return err
	}

	f, err := os.Create(out) // #nosec G304 -- output path is derived from user input
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = wb.WriteTo(f)
	return err
}

func (c *converter) writeXLSXStream(ctx context.Context) error {
	wb := pad.NewWorkbook()
	defer wb.Close()

	for _, name := range c.files {
		if err := c.addSheet(ctx, wb, name); err != nil {
			return err
		}
	}
	_, err := wb.WriteTo(c.stdout)
	return err
}

func (c *converter) addSheet(ctx context.Context, wb *pad.Workbook, name string) error {
	sheet, err := wb.AddSheet(filepath.Base(name), c.width)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return c.pass(ctx, name, sheet)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
