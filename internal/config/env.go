package config

import "strings"

// Environment variables that override file values.
const (
	EnvInputDir    = "INVOICEGEN_DIR"
	EnvOutputDir   = "INVOICEGEN_OUTPUT_DIR"
	EnvTemplate    = "INVOICEGEN_TEMPLATE"
	EnvSoffice     = "INVOICEGEN_SOFFICE"
	EnvConverters  = "INVOICEGEN_CONVERTERS"
	EnvLogLevel    = "INVOICEGEN_LOG_LEVEL"
	EnvLogFormat   = "INVOICEGEN_LOG_FORMAT"
	EnvAssetsPath  = "INVOICEGEN_ASSETS"
	EnvSettleDelay = "INVOICEGEN_SETTLE_DELAY"
)

// ApplyEnv overrides config values from non-empty environment variables
// read through getenv, then re-validates.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(EnvInputDir, &c.Input.Dir)
	set(EnvOutputDir, &c.Output.Dir)
	set(EnvTemplate, &c.Template.Path)
	set(EnvSoffice, &c.Converters.LibreOffice.Path)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)
	set(EnvAssetsPath, &c.Assets.BasePath)
	set(EnvSettleDelay, &c.Scan.SettleDelay)

	if v := strings.TrimSpace(getenv(EnvConverters)); v != "" {
		var order []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(strings.ToLower(name)); name != "" {
				order = append(order, name)
			}
		}
		c.Converters.Order = order
	}

	return c.Validate()
}
