package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want %+v", *cfg, *want)
	}
	if cfg.OutputSuffix() != ".csv" {
		t.Errorf("OutputSuffix() = %q, want .csv", cfg.OutputSuffix())
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	content := `
format: xlsx
out_dir: /tmp/out
max_depth: 16
overflow: widen
split_event: true
`
	path := writeTempFile(t, "csvify.yaml", content)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OutputFormat() != FormatXLSX {
		t.Errorf("Format = %q, want xlsx", cfg.Format)
	}
	if cfg.OutDir != "/tmp/out" {
		t.Errorf("OutDir = %q, want /tmp/out", cfg.OutDir)
	}
	if cfg.MaxDepth != 16 {
		t.Errorf("MaxDepth = %d, want 16", cfg.MaxDepth)
	}
	if cfg.Overflow != "widen" {
		t.Errorf("Overflow = %q, want widen", cfg.Overflow)
	}
	if !cfg.SplitEvent {
		t.Error("SplitEvent = false, want true")
	}
	if !cfg.DecodeBOM {
		t.Error("DecodeBOM lost its default")
	}
	if cfg.OutputSuffix() != ".xlsx" {
		t.Errorf("OutputSuffix() = %q, want .xlsx", cfg.OutputSuffix())
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/csvify.yaml", nil)
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(path, nil)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempFile(t, "csvify.yaml", "max_depth: 10\noverflow: truncate\nsuffix: .txt\n")
	t.Setenv("CSVIFY_MAX_DEPTH", "20")
	t.Setenv("CSVIFY_SUFFIX", ".out")

	flags := newFlagSet()
	if err := flags.Parse([]string{"--suffix", ".padded"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Overflow != "truncate" {
		t.Errorf("Overflow = %q, want truncate (file)", cfg.Overflow)
	}
	if cfg.MaxDepth != 20 {
		t.Errorf("MaxDepth = %d, want 20 (env over file)", cfg.MaxDepth)
	}
	if cfg.Suffix != ".padded" {
		t.Errorf("Suffix = %q, want .padded (flag over env)", cfg.Suffix)
	}
}

func TestLoad_UnchangedFlagsKeepLowerLayers(t *testing.T) {
	t.Setenv("CSVIFY_FORMAT", "xlsx")

	flags := newFlagSet()
	if err := flags.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != "xlsx" {
		t.Errorf("Format = %q, want xlsx from env", cfg.Format)
	}
}

func TestLoad_VerboseFlag(t *testing.T) {
	flags := newFlagSet()
	if err := flags.Parse([]string{"-v", "--no-such-key"}); err == nil {
		t.Fatal("expected unknown flag error")
	}

	flags = newFlagSet()
	if err := flags.Parse([]string{"-v", "--split-event"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.SplitEvent {
		t.Error("SplitEvent = false, want true")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("CSVIFY_OVERFLOW", "skip")

	_, err := Load("", nil)
	if err == nil {
		t.Fatal("Load() expected error for invalid overflow")
	}
	if !strings.Contains(err.Error(), "overflow") {
		t.Errorf("error = %v, want mention of overflow", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"xlsx", func(c *Config) { c.Format = "xlsx" }, ""},
		{"bad format", func(c *Config) { c.Format = "tsv" }, "format"},
		{"depth zero", func(c *Config) { c.MaxDepth = 0 }, "max_depth"},
		{"depth too big", func(c *Config) { c.MaxDepth = 256 }, "max_depth"},
		{"depth one", func(c *Config) { c.MaxDepth = 1 }, ""},
		{"line size", func(c *Config) { c.MaxLineSize = 0 }, "max_line_size"},
		{"overflow", func(c *Config) { c.Overflow = "" }, "overflow"},
		{"suffix separator", func(c *Config) { c.Suffix = "/x.csv" }, "suffix"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"log level case", func(c *Config) { c.LogLevel = "DEBUG" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want prefix %q", err, tt.wantErr)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	out := string(data)
	for _, want := range []string{"format: csv", "max_depth: 255", "overflow: error", "decode_bom: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "out_dir") {
		t.Errorf("Marshal() should omit empty out_dir:\n%s", out)
	}
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", DefaultFormat, "")
	flags.String("suffix", "", "")
	flags.Int("max-depth", DefaultMaxDepth, "")
	flags.Bool("split-event", false, "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("output", "o", "text", "")
	return flags
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}
