// Package docx reads, edits and writes WordprocessingML (.docx) packages.
//
// Only word/document.xml is parsed; every other part of the package is
// carried through byte-for-byte. The API covers what invoice merging
// needs: top-level tables, rows, cell text, appending rows, and reading
// the body in order for rendering.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/beevik/etree"
)

// DocumentPart is the main document part inside the package.
const DocumentPart = "word/document.xml"

// Sentinel errors for package handling.
var (
	ErrNotDocx      = errors.New("not a docx package")
	ErrNoDocument   = errors.New("docx package has no " + DocumentPart)
	ErrDocumentBody = errors.New("document has no body")
)

// part is one entry of the zip package.
type part struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Document is an opened .docx package.
type Document struct {
	parts []part
	xml   *etree.Document
	body  *etree.Element
}

// File is a named part used to assemble a package with Pack.
type File struct {
	Name string
	Data []byte
}

// packTime is stamped on parts built by Pack so output is reproducible.
var packTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Open reads and parses the .docx at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- template path is user-provided
	if err != nil {
		return nil, err
	}
	return Read(data)
}

// Read parses a .docx package from memory.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	doc := &Document{parts: make([]part, 0, len(zr.File))}
	for _, f := range zr.File {
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrNotDocx, f.Name, err)
		}
		doc.parts = append(doc.parts, part{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     content,
		})
		if f.Name != DocumentPart {
			continue
		}
		doc.xml = etree.NewDocument()
		if err := doc.xml.ReadFromBytes(content); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrNotDocx, DocumentPart, err)
		}
	}

	if doc.xml == nil {
		return nil, ErrNoDocument
	}
	root := doc.xml.Root()
	if root == nil {
		return nil, ErrDocumentBody
	}
	doc.body = root.SelectElement("w:body")
	if doc.body == nil {
		return nil, ErrDocumentBody
	}
	return doc, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Tables returns the body-level tables in document order.
// Tables nested inside cells are not included.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, el := range d.body.SelectElements("w:tbl") {
		tables = append(tables, &Table{el: el})
	}
	return tables
}

// Block is a body-level paragraph or table.
type Block interface {
	block()
}

func (*Paragraph) block() {}
func (*Table) block()     {}

// Blocks returns body-level paragraphs and tables in document order.
func (d *Document) Blocks() []Block {
	var blocks []Block
	for _, el := range d.body.ChildElements() {
		switch el.FullTag() {
		case "w:p":
			blocks = append(blocks, &Paragraph{el: el})
		case "w:tbl":
			blocks = append(blocks, &Table{el: el})
		}
	}
	return blocks
}

// Bytes serializes the package. Parts keep their original order,
// compression method and timestamps, so the same input always
// produces the same bytes.
func (d *Document) Bytes() ([]byte, error) {
	xmlData, err := d.xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", DocumentPart, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range d.parts {
		data := p.data
		if p.name == DocumentPart {
			data = xmlData
		}
		if err := writePart(zw, p.name, p.method, p.modified, data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing package: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the package to path, replacing any existing file.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	// #nosec G306 -- documents are meant to be readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Pack assembles files into a .docx package with fixed timestamps.
func Pack(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		if err := writePart(zw, f.Name, zip.Deflate, packTime, f.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing package: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(zw *zip.Writer, name string, method uint16, modified time.Time, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
