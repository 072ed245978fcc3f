package output

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// TextFormatter formats reports as human-readable tables.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if !f.opts.Quiet {
		f.formatFiles(report, w)
		if report.Command == "check" {
			f.formatIssues(report, w)
		}
	}
	return f.formatSummary(report, w)
}

func (f *TextFormatter) formatFiles(report *Report, w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Records", "Max fields", "Width", "Size"})
	for _, file := range report.Files {
		t.AppendRow(table.Row{file.Name, file.Records, file.MaxFields, file.Width(), humanize.Bytes(uint64(file.Bytes))})
	}
	t.Render()
}

func (f *TextFormatter) formatIssues(report *Report, w io.Writer) {
	if len(report.Issues) == 0 {
		_, _ = fmt.Fprintln(w, "No issues detected")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Line", "Column", "Kind", "Message"})
	for _, issue := range report.Issues {
		t.AppendRow(table.Row{issue.File, issue.Line, issue.Column, issue.Kind, issue.Message})
	}
	t.Render()
}

func (f *TextFormatter) formatSummary(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "Target width: %d (%d files, %d records, %s)\n",
		report.Summary.Width,
		report.Summary.Files,
		report.Summary.Records,
		humanize.Bytes(uint64(report.Summary.Bytes)))
	if err != nil {
		return err
	}

	if report.Command == "check" {
		if _, err := fmt.Fprintf(w, "Issues: %d\n", report.Summary.Issues); err != nil {
			return err
		}
	}

	if f.opts.Verbose {
		_, err = fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}
	return err
}
