package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/alnah/go-invoice/internal/docx"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates
var templates embed.FS

// templateParts maps embedded file names to their path inside the package.
// go:embed skips directories starting with "_", so the parts are stored
// under plain names.
var templateParts = []struct {
	file string
	name string
}{
	{"content_types.xml", "[Content_Types].xml"},
	{"package.rels", "_rels/.rels"},
	{"document.xml", docx.DocumentPart},
	{"styles.xml", "word/styles.xml"},
	{"document.xml.rels", "word/_rels/document.xml.rels"},
}

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadTemplate packs the embedded template parts of name into a .docx.
// The result is byte-identical across calls.
func (e *EmbeddedLoader) LoadTemplate(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := "templates/" + name
	if _, err := fs.Stat(templates, dir); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	files := make([]docx.File, 0, len(templateParts))
	for _, p := range templateParts {
		data, err := templates.ReadFile(dir + "/" + p.file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		files = append(files, docx.File{Name: p.name, Data: data})
	}

	data, err := docx.Pack(files)
	if err != nil {
		return nil, fmt.Errorf("%w: packing %q: %v", ErrAssetRead, name, err)
	}
	return data, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
