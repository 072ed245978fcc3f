package config

// Default values for configuration.
const (
	DefaultFormat      = string(FormatCSV)
	DefaultMaxDepth    = 255
	DefaultMaxLineSize = 1 << 20
	DefaultOverflow    = "error"
	DefaultLogLevel    = "warn"
)

// EnvPrefix is the prefix of environment variables read by Load.
// CSVIFY_MAX_DEPTH sets max_depth.
const EnvPrefix = "CSVIFY_"

// DefaultConfig returns a configuration with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		MaxDepth:    DefaultMaxDepth,
		MaxLineSize: DefaultMaxLineSize,
		Overflow:    DefaultOverflow,
		DecodeBOM:   true,
		LogLevel:    DefaultLogLevel,
	}
}

// defaultValues is DefaultConfig keyed the way koanf sees it.
func defaultValues() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"format":        d.Format,
		"out_dir":       d.OutDir,
		"suffix":        d.Suffix,
		"max_depth":     d.MaxDepth,
		"max_line_size": d.MaxLineSize,
		"overflow":      d.Overflow,
		"split_event":   d.SplitEvent,
		"decode_bom":    d.DecodeBOM,
		"log_level":     d.LogLevel,
	}
}
