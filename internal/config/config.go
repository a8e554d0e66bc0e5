// Package config loads and validates invoicegen configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-invoice/internal/dateutil"
	"github.com/alnah/go-invoice/internal/fileutil"
	"github.com/alnah/go-invoice/internal/yamlutil"
)

// AppDirName is the directory searched under the user config dir.
const AppDirName = "go-invoice"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxCurrencyLength = 8
	MaxLevelLength    = 10
)

// Converter names accepted in converters.order.
const (
	ConverterLibreOffice = "libreoffice"
	ConverterChrome      = "chrome"
)

// Log levels and formats.
var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Config holds all configuration for invoice generation.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Template   TemplateConfig   `yaml:"template"`
	Assets     AssetsConfig     `yaml:"assets"`
	Scan       ScanConfig       `yaml:"scan"`
	Converters ConvertersConfig `yaml:"converters"`
	Collector  CollectorConfig  `yaml:"collector"`
	Log        LogConfig        `yaml:"log"`
}

// InputConfig defines where invoice records are written and scanned.
type InputConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig defines where filled documents and PDFs are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = input dir
}

// TemplateConfig selects the invoice template.
type TemplateConfig struct {
	Path     string `yaml:"path"` // .docx file; empty = built-in template
	Currency string `yaml:"currency"`
}

// AssetsConfig defines asset override options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// ScanConfig drives the recent-file scan of the batch run.
type ScanConfig struct {
	WindowHours float64 `yaml:"windowHours"`
	SettleDelay string  `yaml:"settleDelay"` // Go duration, e.g. "2s"
}

// ConvertersConfig orders and tunes the PDF converters.
type ConvertersConfig struct {
	Order       []string          `yaml:"order"`
	LibreOffice LibreOfficeConfig `yaml:"libreoffice"`
	Chrome      ChromeConfig      `yaml:"chrome"`
}

// LibreOfficeConfig configures the soffice converter.
type LibreOfficeConfig struct {
	Path    string `yaml:"path"`    // empty = search PATH
	Timeout string `yaml:"timeout"` // Go duration
}

// ChromeConfig configures the headless browser converter.
type ChromeConfig struct {
	Timeout string `yaml:"timeout"` // Go duration
}

// CollectorConfig configures the terminal form.
type CollectorConfig struct {
	DateFormat string `yaml:"dateFormat"`
	Rows       int    `yaml:"rows"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input:    InputConfig{Dir: "invoices"},
		Output:   OutputConfig{Dir: ""},
		Template: TemplateConfig{Path: "", Currency: "$"},
		Scan:     ScanConfig{WindowHours: 3, SettleDelay: "2s"},
		Converters: ConvertersConfig{
			Order:       []string{ConverterLibreOffice, ConverterChrome},
			LibreOffice: LibreOfficeConfig{Timeout: "2m"},
			Chrome:      ChromeConfig{Timeout: "30s"},
		},
		Collector: CollectorConfig{DateFormat: dateutil.DefaultDateFormat, Rows: 5},
		Log:       LogConfig{Level: "info", Format: "console"},
	}
}

// Validate checks lengths, ranges, durations and enumerations.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"input.dir", c.Input.Dir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"template.path", c.Template.Path, MaxPathLength},
		{"template.currency", c.Template.Currency, MaxCurrencyLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"converters.libreoffice.path", c.Converters.LibreOffice.Path, MaxPathLength},
		{"collector.dateFormat", c.Collector.DateFormat, dateutil.MaxDateFormatLength},
		{"log.level", c.Log.Level, MaxLevelLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if strings.TrimSpace(c.Input.Dir) == "" {
		return fmt.Errorf("%w: input.dir: required", ErrInvalidValue)
	}
	if c.Scan.WindowHours <= 0 || c.Scan.WindowHours > 24*365 {
		return fmt.Errorf("%w: scan.windowHours: must be between 0 and 8760, got %g", ErrInvalidValue, c.Scan.WindowHours)
	}

	for _, d := range []struct{ name, value string }{
		{"scan.settleDelay", c.Scan.SettleDelay},
		{"converters.libreoffice.timeout", c.Converters.LibreOffice.Timeout},
		{"converters.chrome.timeout", c.Converters.Chrome.Timeout},
	} {
		if _, err := parseDuration(d.name, d.value); err != nil {
			return err
		}
	}

	if len(c.Converters.Order) == 0 {
		return fmt.Errorf("%w: converters.order: at least one converter required", ErrInvalidValue)
	}
	seen := make(map[string]bool, len(c.Converters.Order))
	for _, name := range c.Converters.Order {
		switch name {
		case ConverterLibreOffice, ConverterChrome:
		default:
			return fmt.Errorf("%w: converters.order: unknown converter %q (must be %s or %s)",
				ErrInvalidValue, name, ConverterLibreOffice, ConverterChrome)
		}
		if seen[name] {
			return fmt.Errorf("%w: converters.order: %q listed twice", ErrInvalidValue, name)
		}
		seen[name] = true
	}

	if c.Collector.Rows < 1 || c.Collector.Rows > 100 {
		return fmt.Errorf("%w: collector.rows: must be between 1 and 100, got %d", ErrInvalidValue, c.Collector.Rows)
	}
	if _, err := dateutil.FormatDate(c.Collector.DateFormat, time.Time{}); err != nil {
		return fmt.Errorf("%w: collector.dateFormat: %v", ErrInvalidValue, err)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w: log.level: %q (must be one of %s)", ErrInvalidValue, c.Log.Level, strings.Join(logLevels, ", "))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("%w: log.format: %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s: must not be negative", ErrInvalidValue, field)
	}
	return d, nil
}

// OutputDir returns the output directory, defaulting to the input directory.
func (c *Config) OutputDir() string {
	if c.Output.Dir != "" {
		return c.Output.Dir
	}
	return c.Input.Dir
}

// ScanWindow returns scan.windowHours as a duration.
func (c *Config) ScanWindow() time.Duration {
	return time.Duration(c.Scan.WindowHours * float64(time.Hour))
}

// SettleDelay returns scan.settleDelay. Invalid values read as zero;
// Validate reports them.
func (c *Config) SettleDelay() time.Duration {
	d, _ := parseDuration("scan.settleDelay", c.Scan.SettleDelay)
	return d
}

// LibreOfficeTimeout returns converters.libreoffice.timeout (0 = none).
func (c *Config) LibreOfficeTimeout() time.Duration {
	d, _ := parseDuration("converters.libreoffice.timeout", c.Converters.LibreOffice.Timeout)
	return d
}

// ChromeTimeout returns converters.chrome.timeout (0 = converter default).
func (c *Config) ChromeTimeout() time.Duration {
	d, _ := parseDuration("converters.chrome.timeout", c.Converters.Chrome.Timeout)
	return d
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values missing from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return fileutil.IsFilePath(s) || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-invoice/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
