package source

import "context"

// Source provides an iterator over the records of one input stream.
// Implementations are single-pass and not safe for concurrent use.
type Source interface {
	// Next returns the next record.
	// Returns io.EOF when the stream is exhausted. A *LineError reports a
	// line that failed to tokenize; the source remains usable and the next
	// call continues with the following line. A *ReadError is terminal and
	// is returned again by every later call.
	// Empty lines are skipped.
	Next(ctx context.Context) (*Record, error)

	// Close releases any resources held by the source.
	Close() error
}
