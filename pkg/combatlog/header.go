// Package combatlog understands the leading field of combat log records.
//
// The first field of every record packs a timestamp and an event name,
// separated by two spaces:
//
//	4/5 16:34:03.029  COMBAT_LOG_VERSION
//	4/5/2024 16:34:03.0290-4  SPELL_DAMAGE
package combatlog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DefaultHeaderPattern matches "<date> <clock>[<utc offset>]<spaces><event>".
// Capture groups: date, clock, offset (optional), event.
const DefaultHeaderPattern = `^(\d{1,2}/\d{1,2}(?:/\d{4})?) (\d{1,2}:\d{2}:\d{2}(?:\.\d{1,4})?)([-+]\d{1,2})?\s+(\S.*)$`

// ErrNoHeader is returned when a field does not start with a timestamp.
var ErrNoHeader = errors.New("field has no timestamp header")

// Header is the decoded first field of a record.
type Header struct {
	// Timestamp is the timestamp text as written in the log.
	Timestamp string

	// Event is the event name, e.g. SPELL_DAMAGE.
	Event string

	date   string
	clock  string
	offset string
}

// HeaderExtractor splits first fields into timestamp and event.
type HeaderExtractor struct {
	pattern *regexp.Regexp
}

// NewHeaderExtractor creates an extractor for the given pattern, which must
// have the same four capture groups as DefaultHeaderPattern.
func NewHeaderExtractor(pattern *regexp.Regexp) *HeaderExtractor {
	return &HeaderExtractor{pattern: pattern}
}

var defaultExtractor = NewHeaderExtractor(regexp.MustCompile(DefaultHeaderPattern))

// SplitHeader splits field with the default pattern.
func SplitHeader(field string) (Header, error) {
	return defaultExtractor.Extract(field)
}

// Extract decodes field. Returns ErrNoHeader if the pattern doesn't match.
func (e *HeaderExtractor) Extract(field string) (Header, error) {
	m := e.pattern.FindStringSubmatch(field)
	if len(m) < 5 {
		return Header{}, ErrNoHeader
	}

	return Header{
		Timestamp: m[1] + " " + m[2] + m[3],
		Event:     m[4],
		date:      m[1],
		clock:     m[2],
		offset:    m[3],
	}, nil
}

// Time parses the header timestamp. Logs written without a year yield
// year 0; the UTC offset, when present, becomes a fixed zone.
func (h Header) Time() (time.Time, error) {
	if h.date == "" {
		return time.Time{}, ErrNoHeader
	}

	layout := "1/2 15:04:05"
	if countSlashes(h.date) == 2 {
		layout = "1/2/2006 15:04:05"
	}

	loc := time.UTC
	if h.offset != "" {
		hours, err := strconv.Atoi(h.offset)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing utc offset %q: %w", h.offset, err)
		}
		loc = time.FixedZone("UTC"+h.offset, hours*3600)
	}

	ts, err := time.ParseInLocation(layout, h.date+" "+h.clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", h.Timestamp, err)
	}
	return ts, nil
}

func countSlashes(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			n++
		}
	}
	return n
}

// ExpandFields returns fields with the first field split into separate
// timestamp and event columns. A first field without a header is kept in the
// timestamp column with an empty event, so every result is one field longer
// than its input. Empty input is returned unchanged.
func ExpandFields(fields []string) []string {
	if len(fields) == 0 {
		return fields
	}

	out := make([]string, 0, len(fields)+1)
	if h, err := SplitHeader(fields[0]); err == nil {
		out = append(out, h.Timestamp, h.Event)
	} else {
		out = append(out, fields[0], "")
	}
	return append(out, fields[1:]...)
}
