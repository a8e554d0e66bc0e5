package config

// Notes:
// - resolveConfigPath lookups in the user config dir are not tested: they
//   depend on the real home directory. The current-directory branch is.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestDefaultConfig - Defaults are valid and usable without a file
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Input.Dir != "invoices" {
		t.Errorf("Input.Dir = %q, want invoices", cfg.Input.Dir)
	}
	if got := cfg.OutputDir(); got != "invoices" {
		t.Errorf("OutputDir() = %q, want input dir", got)
	}
	if got := cfg.ScanWindow(); got != 3*time.Hour {
		t.Errorf("ScanWindow() = %v, want 3h", got)
	}
	if got := cfg.SettleDelay(); got != 2*time.Second {
		t.Errorf("SettleDelay() = %v, want 2s", got)
	}
	if got := strings.Join(cfg.Converters.Order, ","); got != "libreoffice,chrome" {
		t.Errorf("Converters.Order = %s, want libreoffice,chrome", got)
	}
	if cfg.Template.Currency != "$" {
		t.Errorf("Template.Currency = %q, want $", cfg.Template.Currency)
	}
}

func TestOutputDir_Explicit(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Output.Dir = "out"
	if got := cfg.OutputDir(); got != "out" {
		t.Errorf("OutputDir() = %q, want out", got)
	}
}

// ---------------------------------------------------------------------------
// TestValidate - Field checks
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid default", mutate: func(*Config) {}},
		{name: "empty input dir", mutate: func(c *Config) { c.Input.Dir = " " }, wantErr: ErrInvalidValue},
		{name: "currency too long", mutate: func(c *Config) { c.Template.Currency = "DOLLARS!!" }, wantErr: ErrFieldTooLong},
		{name: "path too long", mutate: func(c *Config) { c.Template.Path = strings.Repeat("a", MaxPathLength+1) }, wantErr: ErrFieldTooLong},
		{name: "zero window", mutate: func(c *Config) { c.Scan.WindowHours = 0 }, wantErr: ErrInvalidValue},
		{name: "fractional window", mutate: func(c *Config) { c.Scan.WindowHours = 0.5 }},
		{name: "bad settle delay", mutate: func(c *Config) { c.Scan.SettleDelay = "soon" }, wantErr: ErrInvalidValue},
		{name: "negative timeout", mutate: func(c *Config) { c.Converters.Chrome.Timeout = "-1s" }, wantErr: ErrInvalidValue},
		{name: "empty settle delay", mutate: func(c *Config) { c.Scan.SettleDelay = "" }},
		{name: "no converters", mutate: func(c *Config) { c.Converters.Order = nil }, wantErr: ErrInvalidValue},
		{name: "unknown converter", mutate: func(c *Config) { c.Converters.Order = []string{"word"} }, wantErr: ErrInvalidValue},
		{name: "duplicate converter", mutate: func(c *Config) { c.Converters.Order = []string{"chrome", "chrome"} }, wantErr: ErrInvalidValue},
		{name: "chrome only", mutate: func(c *Config) { c.Converters.Order = []string{"chrome"} }},
		{name: "zero rows", mutate: func(c *Config) { c.Collector.Rows = 0 }, wantErr: ErrInvalidValue},
		{name: "bad date format", mutate: func(c *Config) { c.Collector.DateFormat = "[YYYY" }, wantErr: ErrInvalidValue},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidValue},
		{name: "upper case log level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("value at limit: unexpected error %v", err)
	}
	err := validateFieldLength("test.field", "12345678901", 10)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "test.field") {
		t.Errorf("error should name the field: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "invoicegen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "input:\n  dir: records\nscan:\n  windowHours: 6\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Input.Dir != "records" {
			t.Errorf("Input.Dir = %q, want records", cfg.Input.Dir)
		}
		if cfg.ScanWindow() != 6*time.Hour {
			t.Errorf("ScanWindow() = %v, want 6h", cfg.ScanWindow())
		}
		if cfg.SettleDelay() != 2*time.Second {
			t.Errorf("SettleDelay() = %v, want default 2s", cfg.SettleDelay())
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
		}
	})

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `input:
  dir: in
output:
  dir: out
template:
  path: acme.docx
  currency: "€"
converters:
  order: [chrome]
  chrome:
    timeout: 1m
collector:
  dateFormat: us
  rows: 8
log:
  level: debug
  format: json
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.OutputDir() != "out" || cfg.Template.Currency != "€" || cfg.Collector.Rows != 8 {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.ChromeTimeout() != time.Minute {
			t.Errorf("ChromeTimeout() = %v, want 1m", cfg.ChromeTimeout())
		}
		if len(cfg.Converters.Order) != 1 || cfg.Converters.Order[0] != ConverterChrome {
			t.Errorf("Converters.Order = %v, want [chrome]", cfg.Converters.Order)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "inputs:\n  dir: x\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "collector:\n  rows: 0\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("missing name lists tried paths", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("no-such-config-xyz")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "no-such-config-xyz.yaml") {
			t.Errorf("error should list tried paths: %v", err)
		}
	})
}

func TestLoadConfig_ByNameInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "acme.yml"), []byte("input:\n  dir: acme\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := LoadConfig("acme")
	if err != nil {
		t.Fatalf("LoadConfig(acme) error = %v", err)
	}
	if cfg.Input.Dir != "acme" {
		t.Errorf("Input.Dir = %q, want acme", cfg.Input.Dir)
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Input.Dir = "records"

	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	if !strings.Contains(string(out), "windowHours: 3") {
		t.Errorf("YAML() should contain windowHours:\n%s", out)
	}

	loaded, err := LoadConfig(writeConfig(t, string(out)))
	if err != nil {
		t.Fatalf("LoadConfig(YAML()) error = %v", err)
	}
	if loaded.Input.Dir != "records" {
		t.Errorf("Input.Dir = %q, want records", loaded.Input.Dir)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnv - Environment overrides
// ---------------------------------------------------------------------------

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvInputDir:   "from-env",
		EnvSoffice:    "/opt/lo/soffice",
		EnvConverters: " Chrome , libreoffice ",
		EnvLogLevel:   "debug",
		EnvTemplate:   "",
	}
	cfg := DefaultConfig()
	cfg.Template.Path = "keep.docx"

	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Input.Dir != "from-env" {
		t.Errorf("Input.Dir = %q, want from-env", cfg.Input.Dir)
	}
	if cfg.Converters.LibreOffice.Path != "/opt/lo/soffice" {
		t.Errorf("LibreOffice.Path = %q", cfg.Converters.LibreOffice.Path)
	}
	if got := strings.Join(cfg.Converters.Order, ","); got != "chrome,libreoffice" {
		t.Errorf("Converters.Order = %s, want chrome,libreoffice", got)
	}
	if cfg.Template.Path != "keep.docx" {
		t.Errorf("empty env var should not override: Template.Path = %q", cfg.Template.Path)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvConverters {
			return "pandoc"
		}
		return ""
	})
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ApplyEnv() error = %v, want ErrInvalidValue", err)
	}
}
