package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-invoice/internal/fileutil"
)

// File extensions of the three artifacts of an invoice.
const (
	RecordExt   = ".json"
	DocumentExt = ".docx"
	PDFExt      = ".pdf"
)

// BaseName returns "invoice_<number>", the stem shared by the record,
// the filled document and the PDF.
func BaseName(number string) string {
	return "invoice_" + number
}

// RecordPath returns the record path for number inside dir.
func RecordPath(dir, number string) string {
	return filepath.Join(dir, BaseName(number)+RecordExt)
}

// DocumentPath returns the filled document path for number inside dir.
func DocumentPath(dir, number string) string {
	return filepath.Join(dir, BaseName(number)+DocumentExt)
}

// PDFPath returns the PDF path for number inside dir.
func PDFPath(dir, number string) string {
	return filepath.Join(dir, BaseName(number)+PDFExt)
}

// SaveRecord writes rec to dir/invoice_<number>.json with four-space
// indentation and returns the path. dir is created when missing. An
// existing record with the same number is overwritten.
func SaveRecord(dir string, rec *Record) (string, error) {
	if rec == nil || strings.TrimSpace(rec.Number) == "" {
		return "", ErrEmptyInvoiceNumber
	}
	if strings.ContainsAny(rec.Number, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidInvoiceNumber, rec.Number)
	}

	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}

	data, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	path := RecordPath(dir, rec.Number)
	// #nosec G306 -- records are plain user documents
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing record: %w", err)
	}
	return path, nil
}

func encodeRecord(rec *Record) ([]byte, error) {
	out := *rec
	if out.Items == nil {
		out.Items = []Item{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&out); err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
