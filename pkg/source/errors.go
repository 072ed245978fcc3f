package source

import "fmt"

// LineError reports a line that could not be tokenized.
type LineError struct {
	Source string
	Line   int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

// Unwrap returns the tokenizer error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// ReadError reports a failure of the underlying stream.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Source, e.Err)
}

// Unwrap returns the stream error.
func (e *ReadError) Unwrap() error {
	return e.Err
}
