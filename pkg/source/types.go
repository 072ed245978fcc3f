// Package source turns raw log streams into lazy sequences of tokenized records.
package source

// Record is the field list produced from one non-empty input line.
type Record struct {
	// Fields are the top-level comma-delimited values of the line.
	Fields []string

	// Source is the name of the stream this record came from.
	Source string

	// Line is the 1-based line number in the source stream.
	Line int
}

// Len returns the number of fields in the record.
func (r *Record) Len() int {
	return len(r.Fields)
}
