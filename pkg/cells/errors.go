package cells

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine indicates a closing bracket without a matching
	// opening bracket, or a line that ends with brackets still open.
	ErrMalformedLine = errors.New("malformed line")

	// ErrStackOverflow indicates bracket nesting deeper than the tokenizer's
	// depth limit.
	ErrStackOverflow = errors.New("bracket nesting too deep")
)

// SyntaxError reports where a line failed to tokenize.
type SyntaxError struct {
	// Column is the 1-based byte offset of the offending character. For an
	// unterminated bracket it is one past the end of the line.
	Column int

	// Depth is the bracket depth at the point of failure.
	Depth int

	// Err is ErrMalformedLine or ErrStackOverflow.
	Err error

	unmatched bool
}

// Error returns a message with position information.
func (e *SyntaxError) Error() string {
	switch {
	case errors.Is(e.Err, ErrStackOverflow):
		return fmt.Sprintf("column %d: %v (depth %d)", e.Column, e.Err, e.Depth)
	case e.unmatched:
		return fmt.Sprintf("column %d: %v: unmatched ']'", e.Column, e.Err)
	default:
		return fmt.Sprintf("column %d: %v: %d unclosed '['", e.Column, e.Err, e.Depth)
	}
}

// Unwrap returns the underlying sentinel error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Kind returns a short machine-friendly name for the failure.
func (e *SyntaxError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrStackOverflow):
		return "stack_overflow"
	case e.unmatched:
		return "unmatched_close"
	default:
		return "unclosed_open"
	}
}
