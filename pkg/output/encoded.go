package output

import (
	"context"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodedFormatter renders reports through a structured encoder. Quiet mode
// encodes only the summary.
type EncodedFormatter struct {
	name   string
	opts   FormatOptions
	encode func(w io.Writer, v interface{}) error
}

// NewJSONFormatter creates a formatter that writes indented JSON.
func NewJSONFormatter(opts FormatOptions) *EncodedFormatter {
	return &EncodedFormatter{name: "json", opts: opts, encode: encodeJSON}
}

// NewYAMLFormatter creates a formatter that writes YAML.
func NewYAMLFormatter(opts FormatOptions) *EncodedFormatter {
	return &EncodedFormatter{name: "yaml", opts: opts, encode: encodeYAML}
}

// Name returns the format name.
func (f *EncodedFormatter) Name() string {
	return f.name
}

// Format encodes the report to w.
func (f *EncodedFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.encode(w, report.Summary)
	}
	return f.encode(w, report)
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
