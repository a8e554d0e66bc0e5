package fileutil_test

// Notes:
// - WriteTempFile: the WriteString and Close error branches are not tested
//   because triggering disk write failures is platform-specific.
// - EnsureDir: the MkdirAll permission failure is not tested (root in CI
//   ignores permission bits).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-invoice/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "html", extension: "html", wantErr: nil},
		{name: "docx", extension: "docx", wantErr: nil},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "html\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation and cleanup
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "<html><body><table><tr><td>Quantity</td></tr></table></body></html>"
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() unexpected error: %v", err)
	}

	if filepath.Ext(path) != ".html" {
		t.Errorf("extension = %q, want .html", filepath.Ext(path))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", got, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file should be removed after cleanup, stat err = %v", err)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("x", "../html")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionPathTraversal", err)
	}
	if cleanup != nil {
		t.Error("cleanup should be nil on error")
	}
}

// ---------------------------------------------------------------------------
// TestEnsureDir - On-demand directory creation
// ---------------------------------------------------------------------------

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "invoices")
		if err := fileutil.EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() unexpected error: %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory not created: %v", err)
		}
	})

	t.Run("existing directory is fine", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := fileutil.EnsureDir(dir); err != nil {
			t.Errorf("EnsureDir() unexpected error: %v", err)
		}
	})

	t.Run("regular file in the way", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "invoices")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		err := fileutil.EnsureDir(path)
		if !errors.Is(err, fileutil.ErrNotDirectory) {
			t.Errorf("EnsureDir() error = %v, want ErrNotDirectory", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular file detection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "invoice_001.json")
	if err := os.WriteFile(file, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: file, want: true},
		{name: "directory", path: dir, want: false},
		{name: "missing", path: filepath.Join(dir, "missing.json"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - Name vs path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"default", false},
		{"my-template", false},
		{"./invoice.docx", true},
		{"/srv/templates/invoice.docx", true},
		{"C:\\templates\\invoice.docx", true},
		{"sub/dir", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
