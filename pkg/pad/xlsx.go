package pad

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates with every new workbook.
const defaultSheet = "Sheet1"

// Workbook collects padded rows into an XLSX workbook, one sheet per input.
type Workbook struct {
	file   *excelize.File
	sheets map[string]bool
	active *SheetWriter
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		file:   excelize.NewFile(),
		sheets: make(map[string]bool),
	}
}

// AddSheet starts a new sheet whose rows are padded to width cells. The name
// is sanitized to satisfy spreadsheet naming rules and made unique within the
// workbook. Only one sheet can be written at a time; the previous sheet must
// have been flushed.
func (wb *Workbook) AddSheet(name string, width int) (*SheetWriter, error) {
	if width > excelize.MaxColumns {
		return nil, fmt.Errorf("width %d exceeds the spreadsheet limit of %d columns", width, excelize.MaxColumns)
	}
	if wb.active != nil && !wb.active.flushed {
		return nil, fmt.Errorf("sheet %q has not been flushed", wb.active.name)
	}

	sheet := wb.uniqueName(SheetName(name))
	if len(wb.sheets) == 0 {
		if err := wb.file.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("naming sheet %q: %w", sheet, err)
		}
	} else if _, err := wb.file.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("creating sheet %q: %w", sheet, err)
	}
	wb.sheets[strings.ToLower(sheet)] = true

	stream, err := wb.file.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("opening sheet %q: %w", sheet, err)
	}

	wb.active = &SheetWriter{name: sheet, stream: stream, width: width}
	return wb.active, nil
}

// Sheets returns the sheet names in creation order.
func (wb *Workbook) Sheets() []string {
	if len(wb.sheets) == 0 {
		return nil
	}
	return wb.file.GetSheetList()
}

// WriteTo serializes the workbook.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	return wb.file.WriteTo(w)
}

// Close releases temporary files held by the workbook.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

func (wb *Workbook) uniqueName(base string) string {
	name := base
	for i := 2; wb.sheets[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, excelize.MaxSheetNameLength-len(suffix)) + suffix
	}
	return name
}

// SheetName converts an arbitrary input name into a valid sheet name.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	name = truncateRunes(name, excelize.MaxSheetNameLength)
	name = strings.Trim(name, "'")
	if name == "" {
		return defaultSheet
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// SheetWriter streams rows into one workbook sheet.
type SheetWriter struct {
	name    string
	stream  *excelize.StreamWriter
	width   int
	row     int
	flushed bool
}

// Name returns the sheet name.
func (s *SheetWriter) Name() string {
	return s.name
}

// WriteRow writes fields to the next row, one field per cell, with empty
// cells up to the sheet width.
func (s *SheetWriter) WriteRow(fields []string) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}

	values := make([]interface{}, max(len(fields), s.width))
	for i, f := range fields {
		values[i] = f
	}
	return s.stream.SetRow(cell, values)
}

// Flush finalizes the sheet. Calling it more than once is a no-op.
func (s *SheetWriter) Flush() error {
	if s.flushed {
		return nil
	}
	s.flushed = true
	return s.stream.Flush()
}
