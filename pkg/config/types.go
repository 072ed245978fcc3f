// Package config provides layered configuration loading and validation for csvify.
package config

// Format selects the padded output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Config is the effective configuration after merging defaults, the optional
// config file, CSVIFY_* environment variables and command-line flags.
type Config struct {
	// Format is the output encoding (csv|xlsx).
	Format string `koanf:"format" yaml:"format"`

	// OutDir, when set, writes one output file per input into this directory
	// instead of writing to stdout.
	OutDir string `koanf:"out_dir" yaml:"out_dir,omitempty"`

	// Suffix is appended to the input base name to form the output file
	// name. Empty selects ".csv" or ".xlsx" by format.
	Suffix string `koanf:"suffix" yaml:"suffix,omitempty"`

	// MaxDepth bounds bracket nesting per line (1-255).
	MaxDepth int `koanf:"max_depth" yaml:"max_depth"`

	// MaxLineSize is the longest accepted input line in bytes.
	MaxLineSize int `koanf:"max_line_size" yaml:"max_line_size"`

	// Overflow is the policy for records wider than the target width
	// (error|truncate|widen).
	Overflow string `koanf:"overflow" yaml:"overflow"`

	// SplitEvent emits the timestamp and event of the first field as two columns.
	SplitEvent bool `koanf:"split_event" yaml:"split_event"`

	// DecodeBOM strips a UTF-8 BOM and transcodes UTF-16 input.
	DecodeBOM bool `koanf:"decode_bom" yaml:"decode_bom"`

	// LogLevel is the stderr log level (debug|info|warn|error).
	LogLevel string `koanf:"log_level" yaml:"log_level"`
}

// OutputFormat returns Format as a typed value.
func (c *Config) OutputFormat() Format {
	return Format(c.Format)
}

// OutputSuffix returns the file name suffix for --out-dir outputs.
func (c *Config) OutputSuffix() string {
	if c.Suffix != "" {
		return c.Suffix
	}
	return "." + c.Format
}
