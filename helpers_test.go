package invoice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-invoice/internal/assets"
	"github.com/alnah/go-invoice/internal/docx"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func sampleRecord() *Record {
	return &Record{
		Number:          "007",
		Date:            "2024-05-01",
		BillingAddress:  "ACME Corp\n1 Main St",
		ShippingAddress: "ACME Warehouse",
		Instructions:    "Leave at dock 4",
		Items: []Item{
			{Quantity: "2", Description: "Widget", UnitPrice: "5.00", Total: "10.00"},
		},
		TotalAmount: "Total Amount: $10.00",
	}
}

// writeRecord saves rec as invoice_<number>.json in dir.
func writeRecord(t *testing.T, dir string, rec *Record) string {
	t.Helper()
	path, err := SaveRecord(dir, rec)
	if err != nil {
		t.Fatalf("SaveRecord() error = %v", err)
	}
	return path
}

// writeFile writes content to dir/name.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// defaultTemplate returns the embedded invoice template parsed.
func defaultTemplate(t *testing.T) *docx.Document {
	t.Helper()
	data, err := assets.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	doc, err := docx.Read(data)
	if err != nil {
		t.Fatalf("docx.Read() error = %v", err)
	}
	return doc
}

// buildTemplate packs a document whose body is the given XML.
func buildTemplate(t *testing.T, body string) []byte {
	t.Helper()
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + wordNS + `"><w:body>` + body + `</w:body></w:document>`
	data, err := docx.Pack([]docx.File{
		{Name: "[Content_Types].xml", Data: []byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`)},
		{Name: docx.DocumentPart, Data: []byte(document)},
	})
	if err != nil {
		t.Fatalf("docx.Pack() error = %v", err)
	}
	return data
}

func parseTemplate(t *testing.T, body string) *docx.Document {
	t.Helper()
	doc, err := docx.Read(buildTemplate(t, body))
	if err != nil {
		t.Fatalf("docx.Read() error = %v", err)
	}
	return doc
}

// xmlTable builds a w:tbl from rows of cell texts.
func xmlTable(rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString("<w:tbl>")
	for _, row := range rows {
		sb.WriteString("<w:tr>")
		for _, text := range row {
			sb.WriteString("<w:tc><w:p><w:r><w:t>" + text + "</w:t></w:r></w:p></w:tc>")
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}

// tableTexts returns the cell texts of every top-level table.
func tableTexts(doc *docx.Document) [][][]string {
	var out [][][]string
	for _, t := range doc.Tables() {
		var rows [][]string
		for _, r := range t.Rows() {
			var cells []string
			for _, c := range r.Cells() {
				cells = append(cells, c.Text())
			}
			rows = append(rows, cells)
		}
		out = append(out, rows)
	}
	return out
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeConverter writes a placeholder PDF, or fails with err.
type fakeConverter struct {
	name   string
	err    error
	calls  int
	closed bool
}

func (f *fakeConverter) Name() string { return f.name }

func (f *fakeConverter) ToPDF(ctx context.Context, docPath, outDir string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pdfPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(docPath), DocumentExt)+PDFExt)
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4 "+f.name), 0o644); err != nil {
		return "", err
	}
	return pdfPath, nil
}

func (f *fakeConverter) Close() error {
	f.closed = true
	return nil
}

var errFake = errors.New("fake failure")
