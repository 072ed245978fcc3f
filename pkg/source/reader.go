package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ccollicutt/csvify/pkg/cells"
)

// DefaultMaxLineSize is the longest line accepted by default.
const DefaultMaxLineSize = 1024 * 1024

// Option configures a Reader.
type Option func(*options)

type options struct {
	maxDepth    uint8
	maxLineSize int
	decodeBOM   bool
}

func defaultOptions() options {
	return options{
		maxDepth:    cells.DefaultMaxDepth,
		maxLineSize: DefaultMaxLineSize,
		decodeBOM:   true,
	}
}

// WithMaxDepth sets the bracket nesting limit passed to the tokenizer.
func WithMaxDepth(depth uint8) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxLineSize sets the longest accepted line in bytes, not counting the
// line terminator. Longer lines fail the stream with bufio.ErrTooLong.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

// WithBOMDecoding controls byte order mark handling. When enabled (the
// default) a UTF-8 BOM is stripped and UTF-16 input carrying a BOM is
// transcoded to UTF-8. Input without a BOM is passed through untouched.
func WithBOMDecoding(enabled bool) Option {
	return func(o *options) {
		o.decodeBOM = enabled
	}
}

// Reader implements Source over an io.Reader.
type Reader struct {
	name    string
	closer  io.Closer
	counter *countingReader
	scanner *bufio.Scanner
	tok     cells.Tokenizer
	maxLine int

	line int
	err  error
}

// New creates a Source reading newline-delimited records from r.
// The name identifies the stream in records and errors.
func New(r io.Reader, name string, opts ...Option) *Reader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	counter := &countingReader{r: r}
	var in io.Reader = counter
	if o.decodeBOM {
		in = transform.NewReader(in, unicode.BOMOverride(transform.Nop))
	}

	scanner := bufio.NewScanner(in)
	initial := 64 * 1024
	if initial > o.maxLineSize {
		initial = o.maxLineSize
	}
	// Room for a trailing "\r\n"; the line length itself is checked in Next.
	scanner.Buffer(make([]byte, 0, initial), o.maxLineSize+2)

	rd := &Reader{
		name:    name,
		counter: counter,
		scanner: scanner,
		tok:     cells.Tokenizer{MaxDepth: o.maxDepth},
		maxLine: o.maxLineSize,
	}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// Open opens the named file and returns a Source over it.
// Each call starts a fresh pass over the file.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return New(f, path, opts...), nil
}

// Next returns the next non-empty record.
func (s *Reader) Next(ctx context.Context) (*Record, error) {
	for {
		if s.err != nil {
			return nil, s.err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				s.err = &ReadError{Source: s.name, Err: err}
			} else {
				s.err = io.EOF
			}
			continue
		}
		s.line++
		if len(s.scanner.Bytes()) > s.maxLine {
			s.err = &ReadError{Source: s.name, Err: bufio.ErrTooLong}
			continue
		}

		fields, err := s.tok.Split(s.scanner.Text())
		if err != nil {
			return nil, &LineError{Source: s.name, Line: s.line, Err: err}
		}
		if len(fields) == 0 {
			continue
		}

		return &Record{
			Fields: fields,
			Source: s.name,
			Line:   s.line,
		}, nil
	}
}

// Name returns the stream name.
func (s *Reader) Name() string {
	return s.name
}

// BytesRead returns the number of raw bytes consumed from the stream so far.
func (s *Reader) BytesRead() int64 {
	return s.counter.n
}

// Close releases the underlying stream if it is closable.
func (s *Reader) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
