// Package width computes the target column count for a batch of log files.
//
// Every record contributes len(Fields)+VirtualColumns: the first field holds
// both a timestamp and an event name and is budgeted as two output columns.
package width

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ccollicutt/csvify/pkg/source"
)

// VirtualColumns is the number of extra columns reserved per record.
const VirtualColumns = 1

// FileStats summarizes one input file.
type FileStats struct {
	Name      string `json:"name" yaml:"name"`
	Records   int    `json:"records" yaml:"records"`
	MaxFields int    `json:"max_fields" yaml:"max_fields"`
	Bytes     int64  `json:"bytes" yaml:"bytes"`
}

// Width returns the column count this file alone would need.
func (s FileStats) Width() int {
	if s.Records == 0 {
		return 0
	}
	return s.MaxFields + VirtualColumns
}

// Result is the outcome of a counting pass.
type Result struct {
	// Width is the maximum record width across all files, including the
	// virtual column. Zero when every input is empty.
	Width int `json:"width" yaml:"width"`

	// Files holds per-file statistics in input order.
	Files []FileStats `json:"files" yaml:"files"`
}

// Records returns the total record count.
func (r *Result) Records() int {
	n := 0
	for _, f := range r.Files {
		n += f.Records
	}
	return n
}

// Option configures a counting pass.
type Option func(*counter)

type counter struct {
	logger  *slog.Logger
	srcOpts []source.Option
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *counter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSourceOptions passes options through to every opened source.
func WithSourceOptions(opts ...source.Option) Option {
	return func(c *counter) {
		c.srcOpts = append(c.srcOpts, opts...)
	}
}

// Count opens each named file in order and returns the maximum record width.
// The first open, read, or tokenizer error aborts the whole pass.
func Count(ctx context.Context, names []string, opts ...Option) (*Result, error) {
	c := &counter{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(c)
	}

	result := &Result{Files: make([]FileStats, 0, len(names))}
	for _, name := range names {
		stats, err := c.countFile(ctx, name)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, stats)
		result.Width = max(result.Width, stats.Width())
	}

	c.logger.Debug("counting pass complete", "files", len(names), "width", result.Width)
	return result, nil
}

func (c *counter) countFile(ctx context.Context, name string) (FileStats, error) {
	src, err := source.Open(name, c.srcOpts...)
	if err != nil {
		return FileStats{}, err
	}
	defer src.Close()

	stats, err := CountSource(ctx, src)
	stats.Name = name
	stats.Bytes = src.BytesRead()
	if err != nil {
		return stats, err
	}

	c.logger.Debug("counted file",
		"file", name,
		"records", stats.Records,
		"max_fields", stats.MaxFields,
		"bytes", stats.Bytes)
	return stats, nil
}

// CountSource consumes src and returns its statistics. It stops at the first
// error of any kind.
func CountSource(ctx context.Context, src source.Source) (FileStats, error) {
	var stats FileStats
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("counting columns: %w", err)
		}
		stats.Records++
		stats.MaxFields = max(stats.MaxFields, rec.Len())
	}
}
