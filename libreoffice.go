package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alnah/go-invoice/internal/fileutil"
	"github.com/alnah/go-invoice/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Cancelling ctx kills
// the whole process group, so helper processes do not outlive the call.
type ExecRunner struct{}

// waitDelay bounds how long Run waits for output pipes after a kill.
const waitDelay = 5 * time.Second

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary is resolved from config or PATH
	process.NewGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process != nil && cmd.Process.Pid > 0 {
			process.KillProcessGroup(cmd.Process.Pid)
		}
		return nil
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		err = ctxErr
	}
	return stdout.String(), stderr.String(), err
}

// macSofficePath is where the LibreOffice app bundle keeps its binary.
const macSofficePath = "/Applications/LibreOffice.app/Contents/MacOS/soffice"

// windowsSofficePath is the default install location on Windows.
const windowsSofficePath = `C:\Program Files\LibreOffice\program\soffice.exe`

// LibreOfficeConverter converts documents by running soffice headless.
type LibreOfficeConverter struct {
	Runner   CommandRunner
	path     string
	timeout  time.Duration
	lookPath func(string) (string, error)
	exists   func(string) bool
}

// LibreOfficeOption configures a LibreOfficeConverter.
type LibreOfficeOption func(*LibreOfficeConverter)

// WithSofficePath uses the given soffice binary instead of searching for one.
func WithSofficePath(path string) LibreOfficeOption {
	return func(c *LibreOfficeConverter) {
		c.path = path
	}
}

// WithSofficeTimeout bounds each conversion. Zero disables the limit.
// Panics if d < 0 (programmer error).
func WithSofficeTimeout(d time.Duration) LibreOfficeOption {
	if d < 0 {
		panic("invoice: WithSofficeTimeout duration must not be negative")
	}
	return func(c *LibreOfficeConverter) {
		c.timeout = d
	}
}

// WithRunner replaces the command runner.
func WithRunner(r CommandRunner) LibreOfficeOption {
	return func(c *LibreOfficeConverter) {
		c.Runner = r
	}
}

// defaultSofficeTimeout covers a cold LibreOffice start.
const defaultSofficeTimeout = 2 * time.Minute

// NewLibreOfficeConverter creates a converter with a real command runner.
func NewLibreOfficeConverter(opts ...LibreOfficeOption) *LibreOfficeConverter {
	c := &LibreOfficeConverter{
		Runner:   &ExecRunner{},
		timeout:  defaultSofficeTimeout,
		lookPath: exec.LookPath,
		exists:   fileutil.FileExists,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements PDFConverter.
func (c *LibreOfficeConverter) Name() string {
	return ConverterLibreOffice
}

// Binary locates soffice: the configured path, then soffice or
// libreoffice on PATH, then the platform install location.
func (c *LibreOfficeConverter) Binary() (string, error) {
	if c.path != "" {
		if !c.exists(c.path) {
			return "", fmt.Errorf("%w: %s", ErrSofficeNotFound, c.path)
		}
		return c.path, nil
	}

	for _, name := range []string{"soffice", "libreoffice"} {
		if p, err := c.lookPath(name); err == nil {
			return p, nil
		}
	}

	var fallback string
	switch runtime.GOOS {
	case "darwin":
		fallback = macSofficePath
	case "windows":
		fallback = windowsSofficePath
	}
	if fallback != "" && c.exists(fallback) {
		return fallback, nil
	}
	return "", ErrSofficeNotFound
}

// ToPDF runs soffice --headless --convert-to pdf. soffice names the PDF
// after the document, so the result is outDir/<doc base>.pdf; the call
// fails unless that file exists afterwards.
func (c *LibreOfficeConverter) ToPDF(ctx context.Context, docPath, outDir string) (string, error) {
	bin, err := c.Binary()
	if err != nil {
		return "", err
	}

	pdfPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))+PDFExt)
	// A PDF left by an earlier run must not pass for this one.
	if err := os.Remove(pdfPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("removing stale PDF: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	_, stderr, err := c.Runner.Run(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", outDir, docPath)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return "", fmt.Errorf("running soffice: %s: %w", msg, err)
		}
		return "", fmt.Errorf("running soffice: %w", err)
	}

	if !c.exists(pdfPath) {
		return "", fmt.Errorf("%w: %s", ErrConverterOutput, pdfPath)
	}
	return pdfPath, nil
}

// Close implements PDFConverter. soffice runs per call; nothing is held.
func (c *LibreOfficeConverter) Close() error {
	return nil
}
