package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/alnah/go-invoice/internal/config"
	"github.com/alnah/go-invoice/internal/logging"
)

// envConfigPath names the config file when --config is not given.
const envConfigPath = "INVOICEGEN_CONFIG"

// envPrefix starts every variable invoicegen reads.
const envPrefix = "INVOICEGEN_"

// knownEnvVars lists valid INVOICEGEN_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath:         true,
	config.EnvInputDir:    true,
	config.EnvOutputDir:   true,
	config.EnvTemplate:    true,
	config.EnvSoffice:     true,
	config.EnvConverters:  true,
	config.EnvLogLevel:    true,
	config.EnvLogFormat:   true,
	config.EnvAssetsPath:  true,
	config.EnvSettleDelay: true,
}

// loadDotEnv reads KEY=value pairs from path into the process environment.
// A missing file is not an error; variables already set are kept.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// warnUnknownEnvVars logs warnings for unrecognized INVOICEGEN_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// loadConfig resolves configuration: defaults, then the config file from
// --config or INVOICEGEN_CONFIG, then INVOICEGEN_* overrides.
func loadConfig(flags *commonFlags, env *Environment) (*config.Config, error) {
	path := flags.config
	if path == "" {
		path = strings.TrimSpace(env.Getenv(envConfigPath))
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(env.Getenv); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}
	return cfg, nil
}

// newLogger builds the run logger. --verbose forces debug and --quiet
// forces error, whatever log.level says.
func newLogger(cfg *config.Config, flags *commonFlags, w io.Writer) (*zap.Logger, error) {
	level := cfg.Log.Level
	switch {
	case flags.verbose:
		level = "debug"
	case flags.quiet:
		level = "error"
	}
	return logging.New(level, cfg.Log.Format, w)
}
