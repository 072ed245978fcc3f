// Package pad writes records as fixed-width rows.
//
// The padding pass is the second traversal of the input: given the target
// width computed by package width, it re-reads every record and emits it
// right-padded so that all rows have the same number of columns.
package pad

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/csvify/pkg/cells"
)

// RowWriter receives padded rows.
type RowWriter interface {
	// WriteRow writes one record. Rows shorter than the writer's width are
	// padded; longer rows are written as-is.
	WriteRow(fields []string) error

	// Flush commits buffered rows to the underlying sink.
	Flush() error
}

// CSVWriter writes comma-joined rows padded with trailing commas.
// Field text is written verbatim: no quoting and no escaping.
type CSVWriter struct {
	w     *bufio.Writer
	width int
}

// NewCSVWriter creates a writer that pads every row to width columns.
func NewCSVWriter(w io.Writer, width int) *CSVWriter {
	return &CSVWriter{w: bufio.NewWriter(w), width: width}
}

// Width returns the target column count.
func (c *CSVWriter) Width() int {
	return c.width
}

// WriteRow writes fields joined by commas, then width-len(fields) padding
// commas, then a newline.
func (c *CSVWriter) WriteRow(fields []string) error {
	if _, err := c.w.WriteString(cells.Join(fields)); err != nil {
		return err
	}
	if n := c.width - len(fields); n > 0 {
		if _, err := c.w.WriteString(strings.Repeat(cells.Separator, n)); err != nil {
			return err
		}
	}
	return c.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (c *CSVWriter) Flush() error {
	return c.w.Flush()
}

// WriteError reports a failure writing a record to the sink.
type WriteError struct {
	Source string
	Line   int
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s line %d: %v", e.Source, e.Line, e.Err)
}

// Unwrap returns the sink error.
func (e *WriteError) Unwrap() error {
	return e.Err
}
