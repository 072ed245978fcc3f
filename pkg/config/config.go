package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load builds the effective configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile may be empty, and flags may be nil. Only flags the user set are
// applied; the flag "verbose" raises log_level to debug.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}

	// CSVIFY_OUT_DIR -> out_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if flags != nil {
		known := defaultValues()
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if f.Name == "verbose" {
				if v, _ := flags.GetBool("verbose"); v {
					return "log_level", "debug"
				}
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := known[key]; !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	switch Format(cfg.Format) {
	case FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("format: invalid value %q (must be csv or xlsx)", cfg.Format)
	}

	if cfg.MaxDepth < 1 || cfg.MaxDepth > 255 {
		return fmt.Errorf("max_depth: %d out of range (must be 1-255)", cfg.MaxDepth)
	}

	if cfg.MaxLineSize < 1 {
		return fmt.Errorf("max_line_size: must be positive, got %d", cfg.MaxLineSize)
	}

	switch cfg.Overflow {
	case "error", "truncate", "widen":
	default:
		return fmt.Errorf("overflow: invalid value %q (must be error, truncate, or widen)", cfg.Overflow)
	}

	if strings.ContainsAny(cfg.Suffix, `/\`) {
		return errors.New("suffix: must not contain a path separator")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: invalid value %q (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yamlv3.Marshal(cfg)
}
