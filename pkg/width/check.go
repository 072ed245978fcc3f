package width

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ccollicutt/csvify/pkg/cells"
	"github.com/ccollicutt/csvify/pkg/combatlog"
	"github.com/ccollicutt/csvify/pkg/source"
)

// Issue kinds reported by Check in addition to cells.SyntaxError kinds.
const (
	KindNoHeader     = "no_header"
	KindBadTimestamp = "bad_timestamp"
)

// Issue is one problem found by Check.
type Issue struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// CheckResult is the outcome of a diagnostic pass. Width only accounts for
// records that tokenized cleanly.
type CheckResult struct {
	Result
	Issues []Issue `json:"issues" yaml:"issues"`
}

// CheckOption configures a diagnostic pass.
type CheckOption func(*checker)

type checker struct {
	counter
	headers bool
}

// WithHeaderCheck also verifies that every record starts with a parseable
// combat log timestamp and event.
func WithHeaderCheck(enabled bool) CheckOption {
	return func(c *checker) {
		c.headers = enabled
	}
}

// WithCountOptions applies counting options (logger, source options).
func WithCountOptions(opts ...Option) CheckOption {
	return func(c *checker) {
		for _, opt := range opts {
			opt(&c.counter)
		}
	}
}

// Check scans every named file and collects tokenizer failures as issues
// instead of stopping at the first one. Open and read errors still abort.
func Check(ctx context.Context, names []string, opts ...CheckOption) (*CheckResult, error) {
	c := &checker{counter: counter{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}}
	for _, opt := range opts {
		opt(c)
	}

	result := &CheckResult{Result: Result{Files: make([]FileStats, 0, len(names))}}
	for _, name := range names {
		stats, issues, err := c.checkFile(ctx, name)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, stats)
		result.Width = max(result.Width, stats.Width())
		result.Issues = append(result.Issues, issues...)
	}

	c.logger.Debug("check pass complete", "files", len(names), "issues", len(result.Issues))
	return result, nil
}

func (c *checker) checkFile(ctx context.Context, name string) (FileStats, []Issue, error) {
	src, err := source.Open(name, c.srcOpts...)
	if err != nil {
		return FileStats{}, nil, err
	}
	defer src.Close()

	stats := FileStats{Name: name}
	var issues []Issue
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		var lineErr *source.LineError
		if errors.As(err, &lineErr) {
			issues = append(issues, lineIssue(lineErr))
			continue
		}
		if err != nil {
			return stats, nil, err
		}

		stats.Records++
		stats.MaxFields = max(stats.MaxFields, rec.Len())
		if c.headers {
			if issue, ok := headerIssue(rec); ok {
				issues = append(issues, issue)
			}
		}
	}
	stats.Bytes = src.BytesRead()

	c.logger.Debug("checked file", "file", name, "records", stats.Records, "issues", len(issues))
	return stats, issues, nil
}

func lineIssue(e *source.LineError) Issue {
	issue := Issue{
		File:    e.Source,
		Line:    e.Line,
		Kind:    "malformed",
		Message: e.Err.Error(),
	}
	var syn *cells.SyntaxError
	if errors.As(e.Err, &syn) {
		issue.Column = syn.Column
		issue.Kind = syn.Kind()
	}
	return issue
}

func headerIssue(rec *source.Record) (Issue, bool) {
	h, err := combatlog.SplitHeader(rec.Fields[0])
	if err != nil {
		return Issue{File: rec.Source, Line: rec.Line, Column: 1, Kind: KindNoHeader, Message: err.Error()}, true
	}
	if _, err := h.Time(); err != nil {
		return Issue{File: rec.Source, Line: rec.Line, Column: 1, Kind: KindBadTimestamp, Message: err.Error()}, true
	}
	return Issue{}, false
}
