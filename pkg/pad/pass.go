package pad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ccollicutt/csvify/pkg/combatlog"
	"github.com/ccollicutt/csvify/pkg/source"
)

// OverflowPolicy decides what happens to a record wider than the target width.
type OverflowPolicy string

const (
	// OverflowFail fails the pass with ErrRowTooWide (default).
	OverflowFail OverflowPolicy = "error"
	// OverflowTruncate drops the fields beyond the target width.
	OverflowTruncate OverflowPolicy = "truncate"
	// OverflowWiden writes the whole record unpadded, wider than the target.
	OverflowWiden OverflowPolicy = "widen"
)

// ParseOverflowPolicy validates a policy name. An empty name selects
// OverflowFail.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(s); p {
	case "":
		return OverflowFail, nil
	case OverflowFail, OverflowTruncate, OverflowWiden:
		return p, nil
	default:
		return "", fmt.Errorf("invalid overflow policy %q (must be error, truncate, or widen)", s)
	}
}

// ErrRowTooWide is returned under OverflowFail when a record does not fit.
var ErrRowTooWide = errors.New("record wider than target width")

// OverflowError describes a record that exceeded the target width.
type OverflowError struct {
	Source string
	Line   int
	Fields int
	Width  int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s:%d: %v (%d fields, width %d)", e.Source, e.Line, ErrRowTooWide, e.Fields, e.Width)
}

// Unwrap returns ErrRowTooWide.
func (e *OverflowError) Unwrap() error {
	return ErrRowTooWide
}

// Stats summarizes one padding pass.
type Stats struct {
	Rows      int
	Truncated int
	Widened   int
}

// Option configures a padding pass.
type Option func(*passer)

type passer struct {
	overflow   OverflowPolicy
	splitEvent bool
	logger     *slog.Logger
}

// WithOverflow sets the overflow policy.
func WithOverflow(p OverflowPolicy) Option {
	return func(ps *passer) {
		ps.overflow = p
	}
}

// WithEventSplit emits the timestamp and event of the first field as two
// separate columns. This uses the virtual column reserved by the counting
// pass, so split rows still fit the target width.
func WithEventSplit(enabled bool) Option {
	return func(ps *passer) {
		ps.splitEvent = enabled
	}
}

// WithLogger sets the logger used for overflow warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(ps *passer) {
		if logger != nil {
			ps.logger = logger
		}
	}
}

// Pass reads every record from src and writes it to w padded to width
// columns. It flushes w before returning. Any read, tokenizer, overflow or
// write error stops the pass.
func Pass(ctx context.Context, src source.Source, w RowWriter, width int, opts ...Option) (Stats, error) {
	ps := &passer{
		overflow: OverflowFail,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ps)
	}

	var stats Stats
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("padding rows: %w", err)
		}

		fields := rec.Fields
		if ps.splitEvent {
			fields = combatlog.ExpandFields(fields)
		}

		if len(fields) > width {
			switch ps.overflow {
			case OverflowTruncate:
				ps.logger.Warn("truncating record wider than target width",
					"file", rec.Source, "line", rec.Line, "fields", len(fields), "width", width)
				fields = fields[:width]
				stats.Truncated++
			case OverflowWiden:
				ps.logger.Warn("writing record wider than target width",
					"file", rec.Source, "line", rec.Line, "fields", len(fields), "width", width)
				stats.Widened++
			default:
				return stats, &OverflowError{Source: rec.Source, Line: rec.Line, Fields: len(fields), Width: width}
			}
		}

		if err := w.WriteRow(fields); err != nil {
			return stats, &WriteError{Source: rec.Source, Line: rec.Line, Err: err}
		}
		stats.Rows++
	}

	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("flushing output: %w", err)
	}
	return stats, nil
}
