// Package cells splits comma-delimited log lines into fields.
//
// Commas nested inside square brackets do not separate fields, so a compound
// value such as [(1,2,3),(4,5,6)] stays in a single field. Only bracket depth
// is tracked; parentheses and other characters are opaque text.
package cells

import "strings"

// DefaultMaxDepth is the deepest bracket nesting accepted by Split.
const DefaultMaxDepth = 255

// Separator is the top-level field delimiter.
const Separator = ","

// Tokenizer splits lines with a configurable bracket depth limit.
// The zero value rejects any opening bracket.
type Tokenizer struct {
	// MaxDepth is the deepest nesting allowed. Opening a bracket at this
	// depth fails with ErrStackOverflow.
	MaxDepth uint8
}

var defaultTokenizer = Tokenizer{MaxDepth: DefaultMaxDepth}

// Split tokenizes line with the default depth limit.
func Split(line string) ([]string, error) {
	return defaultTokenizer.Split(line)
}

// Split returns the top-level fields of line.
//
// An empty line yields a nil slice and no error. The line must not contain
// its terminator. Bracket characters are kept in the field text, so Join
// reverses Split for every line Split accepts.
func (t Tokenizer) Split(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}

	var (
		fields []string
		depth  uint8
		start  int
	)

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '[':
			if depth >= t.MaxDepth {
				return nil, &SyntaxError{Column: i + 1, Depth: int(depth), Err: ErrStackOverflow}
			}
			depth++
		case ']':
			if depth == 0 {
				return nil, &SyntaxError{Column: i + 1, Depth: 0, Err: ErrMalformedLine, unmatched: true}
			}
			depth--
		case ',':
			if depth == 0 {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}

	if depth > 0 {
		return nil, &SyntaxError{Column: len(line) + 1, Depth: int(depth), Err: ErrMalformedLine}
	}

	return append(fields, line[start:]), nil
}

// Join reassembles fields into a single line.
func Join(fields []string) string {
	return strings.Join(fields, Separator)
}
