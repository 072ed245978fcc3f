// Package output renders count and check reports.
package output

import (
	"time"

	"github.com/ccollicutt/csvify/pkg/width"
)

// Report is the complete output of a count or check run.
type Report struct {
	// Command is "count" or "check".
	Command string `json:"command" yaml:"command"`

	// Summary provides aggregate statistics.
	Summary Summary `json:"summary" yaml:"summary"`

	// Files holds per-file statistics in input order.
	Files []width.FileStats `json:"files" yaml:"files"`

	// Issues lists problems found by check. Always empty for count.
	Issues []width.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Width is the target column count, including the virtual column.
	Width int `json:"width" yaml:"width"`

	Files   int   `json:"files" yaml:"files"`
	Records int   `json:"records" yaml:"records"`
	Bytes   int64 `json:"bytes" yaml:"bytes"`
	Issues  int   `json:"issues" yaml:"issues"`
}

// Metadata provides context about the run.
type Metadata struct {
	// GeneratedAt is when the scan finished.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// NewCountReport creates a Report from a counting pass that started at start.
func NewCountReport(result *width.Result, start time.Time) *Report {
	return newReport("count", result, nil, start)
}

// NewCheckReport creates a Report from a diagnostic pass that started at start.
func NewCheckReport(result *width.CheckResult, start time.Time) *Report {
	return newReport("check", &result.Result, result.Issues, start)
}

func newReport(command string, result *width.Result, issues []width.Issue, start time.Time) *Report {
	now := time.Now()
	report := &Report{
		Command: command,
		Files:   result.Files,
		Issues:  issues,
		Summary: Summary{
			Width:   result.Width,
			Files:   len(result.Files),
			Records: result.Records(),
			Issues:  len(issues),
		},
		Metadata: Metadata{
			GeneratedAt: now,
			Duration:    now.Sub(start),
		},
	}
	for _, f := range result.Files {
		report.Summary.Bytes += f.Bytes
	}
	return report
}

// HasIssues returns true if any issues were found.
func (r *Report) HasIssues() bool {
	return r.Summary.Issues > 0
}
