package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/collector"
	"github.com/alnah/go-invoice/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and fakes
// ---------------------------------------------------------------------------

// fakeConverter writes a placeholder PDF, or fails with err.
type fakeConverter struct {
	name string
	err  error

	mu    sync.Mutex
	calls []string
}

func (f *fakeConverter) Name() string { return f.name }

func (f *fakeConverter) ToPDF(_ context.Context, docPath, outDir string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, docPath)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	pdfPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(docPath), invoice.DocumentExt)+invoice.PDFExt)
	return pdfPath, os.WriteFile(pdfPath, []byte("%PDF-1.4 fake"), 0o644)
}

func (f *fakeConverter) Close() error { return nil }

func (f *fakeConverter) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// testEnv is an Environment backed by buffers, a variable map and conv.
type testEnv struct {
	*Environment
	stdout, stderr *bytes.Buffer
	conv           *fakeConverter
	collected      int
}

func newTestEnv(t *testing.T, vars map[string]string) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		conv:   &fakeConverter{name: "fake"},
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		IsTerminal: func() bool { return false },
		NewConverters: func(*config.Config) ([]invoice.PDFConverter, error) {
			return []invoice.PDFConverter{te.conv}, nil
		},
		Collect: func(_ context.Context, _ collector.Config, _ io.Reader, _ io.Writer) ([]string, error) {
			te.collected++
			return nil, nil
		},
	}
	return te
}

// writeRecord saves a valid record numbered number in dir.
func writeRecord(t *testing.T, dir, number string) string {
	t.Helper()
	path, err := invoice.SaveRecord(dir, &invoice.Record{
		Number:          number,
		Date:            "2024-05-01",
		BillingAddress:  "ACME Corp",
		ShippingAddress: "ACME Warehouse",
		Instructions:    "",
		Items:           []invoice.Item{{Quantity: "2", Description: "Widget", UnitPrice: "5.00", Total: "10.00"}},
		TotalAmount:     "Total Amount: $10.00",
	})
	if err != nil {
		t.Fatalf("SaveRecord() error = %v", err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
