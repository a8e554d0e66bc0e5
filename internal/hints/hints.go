// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-invoice/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForLibreOfficeNotFound returns install hints when soffice cannot be located.
func ForLibreOfficeNotFound() string {
	var install string
	switch runtime.GOOS {
	case "darwin":
		install = "brew install --cask libreoffice"
	case "windows":
		install = "install LibreOffice from libreoffice.org"
	default:
		install = "install the libreoffice package"
	}
	return formatHints([]string{install, "or set INVOICEGEN_SOFFICE to the soffice binary"})
}

// ForConversionFailed returns a hint after every converter failed.
func ForConversionFailed() string {
	return format("run 'invoicegen doctor' to check which converters are available")
}

// ForTimeout returns a hint about increasing timeouts for slow conversions.
func ForTimeout() string {
	return format("raise converters.chrome.timeout or converters.libreoffice.timeout in the config")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-invoice/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-invoice") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMissingField returns a hint naming the record keys the merger expects.
func ForMissingField() string {
	return format(`records need "Invoice Number", "Invoice Date", "Billing Address", ` +
		`"Shipping Address", "Instructions", "Items" and "Total Amount"`)
}

// ForTemplate returns a hint for template loading errors.
func ForTemplate() string {
	return format("template.path must point to a .docx file; leave it empty for the built-in invoice")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
