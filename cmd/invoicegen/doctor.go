package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/assets"
	"github.com/alnah/go-invoice/internal/config"
	"github.com/alnah/go-invoice/internal/hints"
)

// versionTimeout bounds the --version probes of external binaries.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string        `json:"status"` // "ready", "warnings", "errors"
	LibreOffice converterInfo `json:"libreoffice"`
	Chrome      converterInfo `json:"chrome"`
	Env         envInfo       `json:"environment"`
	System      systemInfo    `json:"system"`
	Warnings    []string      `json:"warnings,omitempty"`
	Errors      []string      `json:"errors,omitempty"`
}

// converterInfo holds the detection result of one converter backend.
type converterInfo struct {
	Enabled bool   `json:"enabled"` // listed in converters.order
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox *bool  `json:"sandbox,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	InputDir         string `json:"input_dir"`
	InputDirWritable bool   `json:"input_dir_writable"`
	TempWritable     bool   `json:"temp_writable"`
	CustomAssets     bool   `json:"custom_assets"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = at least one converter works, 4 = none does, 1 = other errors.
func runDoctorCmd(args []string, env *Environment) int {
	flags, rest, err := parseDoctorFlags(args, env.Stderr)
	if err == nil && len(rest) > 0 {
		err = fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	switch {
	case !result.canConvert():
		return ExitConverter
	case result.Status == "errors":
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}
	for _, name := range cfg.Converters.Order {
		switch name {
		case invoice.ConverterLibreOffice:
			result.LibreOffice.Enabled = true
		case invoice.ConverterChrome:
			result.Chrome.Enabled = true
		}
	}

	checkLibreOffice(result, cfg)
	checkChrome(result)
	checkEnvironment(result, env)
	checkSystem(result, cfg)

	if !result.canConvert() {
		result.Errors = append(result.Errors, "No configured PDF converter is available")
	}

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// canConvert reports whether a converter listed in converters.order is installed.
func (r *doctorResult) canConvert() bool {
	return (r.LibreOffice.Enabled && r.LibreOffice.Found) ||
		(r.Chrome.Enabled && r.Chrome.Found)
}

// checkLibreOffice locates soffice the way the converter does.
func checkLibreOffice(result *doctorResult, cfg *config.Config) {
	var opts []invoice.LibreOfficeOption
	if p := cfg.Converters.LibreOffice.Path; p != "" {
		opts = append(opts, invoice.WithSofficePath(p))
	}
	path, err := invoice.NewLibreOfficeConverter(opts...).Binary()
	if err != nil {
		if result.LibreOffice.Enabled {
			result.Warnings = append(result.Warnings, err.Error()+hints.ForLibreOfficeNotFound())
		}
		return
	}

	result.LibreOffice.Found = true
	result.LibreOffice.Path = path
	result.LibreOffice.Version = binaryVersion(path, &result.Warnings)
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			if result.Chrome.Enabled {
				result.Warnings = append(result.Warnings,
					"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			}
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	sandbox := result.Env.NoSandbox != "1"
	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = &sandbox
	result.Chrome.Version = binaryVersion(chromePath, &result.Warnings)
}

// binaryVersion runs path --version, recording a warning on failure.
func binaryVersion(path string, warnings *[]string) string {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- path comes from detection
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Could not get version of %s: %v", filepath.Base(path), err))
		return ""
	}
	return strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container = hints.IsInContainer() || env.Getenv("KUBERNETES_SERVICE_HOST") != ""

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Enabled && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkSystem verifies the input and temp directories are writable.
func checkSystem(result *doctorResult, cfg *config.Config) {
	result.System.InputDir = cfg.Input.Dir
	result.System.InputDirWritable = dirWritable(cfg.Input.Dir)
	if !result.System.InputDirWritable {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Input directory %s is missing or not writable", cfg.Input.Dir))
	}

	result.System.TempWritable = dirWritable(os.TempDir())
	if !result.System.TempWritable {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	}

	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.System.CustomAssets = resolver.HasCustomLoader()
}

func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".invoicegen-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "invoicegen doctor")
	fmt.Fprintln(w)

	printConverter(w, "LibreOffice", r.LibreOffice)
	printConverter(w, "Chrome/Chromium", r.Chrome)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.InputDirWritable {
		fmt.Fprintf(w, "  [OK] Input directory: %s\n", r.System.InputDir)
	} else {
		fmt.Fprintf(w, "  [WARN] Input directory: %s not writable\n", r.System.InputDir)
	}
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.CustomAssets {
		fmt.Fprintln(w, "  [OK] Assets: custom base path, built-in fallback")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to generate invoices")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printConverter(w io.Writer, title string, c converterInfo) {
	fmt.Fprintln(w, title)
	switch {
	case !c.Enabled:
		fmt.Fprintln(w, "  [--] Not in converters.order")
	case c.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", c.Path)
		if c.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", c.Version)
		}
		if c.Sandbox != nil && !*c.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	default:
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)
}
