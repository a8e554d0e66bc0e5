package invoice

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-invoice/internal/assets"
	"github.com/alnah/go-invoice/internal/docx"
	"github.com/alnah/go-invoice/internal/fileutil"
)

// Generator turns invoice records into filled documents and PDFs.
// Create with NewGenerator, call Generate per record, and Close when done.
type Generator struct {
	logger    *zap.Logger
	converter *FallbackConverter
	convs     []PDFConverter
	template  []byte
	style     string
	outDir    string
	mergeOpts []MergeOption
}

// Result describes one generated invoice.
type Result struct {
	RecordPath   string
	Number       string
	DocumentPath string
	PDFPath      string        // empty when only the document was filled
	Converter    string        // converter that produced the PDF
	Report       *MergeReport  // what the merge changed
	Duration     time.Duration // wall time for the whole record
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithConverters sets the PDF converters, primary first. The default is
// LibreOffice with a Chrome fallback.
func WithConverters(convs ...PDFConverter) Option {
	return func(g *Generator) {
		g.convs = convs
	}
}

// WithTemplate uses the given .docx bytes instead of the embedded template.
func WithTemplate(data []byte) Option {
	return func(g *Generator) {
		g.template = data
	}
}

// WithStyle sets the stylesheet of the default Chrome converter.
func WithStyle(css string) Option {
	return func(g *Generator) {
		g.style = css
	}
}

// WithOutputDir writes documents and PDFs to dir instead of next to the record.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outDir = dir
	}
}

// WithMergeOptions passes options to every Merge call.
func WithMergeOptions(opts ...MergeOption) Option {
	return func(g *Generator) {
		g.mergeOpts = append(g.mergeOpts, opts...)
	}
}

// NewGenerator creates a Generator. The template is parsed once here so a
// broken template fails fast instead of once per record.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.template == nil {
		data, err := assets.LoadTemplate(assets.DefaultTemplateName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
		}
		g.template = data
	}
	if _, err := docx.Read(g.template); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}

	if g.convs == nil {
		convs, err := g.defaultConverters()
		if err != nil {
			return nil, err
		}
		g.convs = convs
	}
	g.converter = NewFallbackConverter(g.logger, g.convs...)
	return g, nil
}

func (g *Generator) defaultConverters() ([]PDFConverter, error) {
	var chromeOpts []ChromeOption
	if g.style != "" {
		chromeOpts = append(chromeOpts, WithChromeStyle(g.style))
	}
	chrome, err := NewChromeConverter(chromeOpts...)
	if err != nil {
		return nil, err
	}
	return []PDFConverter{NewLibreOfficeConverter(), chrome}, nil
}

// Fill merges the record at recordPath into the template and saves
// invoice_<number>.docx. No PDF is produced.
func (g *Generator) Fill(recordPath string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return g.fill(recordPath, time.Now())
}

// Generate fills the template with the record at recordPath, saves
// invoice_<number>.docx and converts it to invoice_<number>.pdf.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (g *Generator) Generate(ctx context.Context, recordPath string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := time.Now()
	res, err := g.fill(recordPath, start)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conv, err := g.converter.Convert(ctx, res.DocumentPath, filepath.Dir(res.DocumentPath))
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", res.DocumentPath, err)
	}

	res.PDFPath = conv.PDFPath
	res.Converter = conv.Converter
	res.Duration = time.Since(start)

	g.logger.Info("invoice generated",
		zap.String("number", res.Number),
		zap.String("pdf", res.PDFPath),
		zap.String("converter", res.Converter),
		zap.Int("fallbacks", len(conv.Failures)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (g *Generator) fill(recordPath string, start time.Time) (*Result, error) {
	rec, err := LoadRecord(recordPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rec.Number) == "" {
		return nil, fmt.Errorf("%s: %w", recordPath, ErrEmptyInvoiceNumber)
	}
	if strings.ContainsAny(rec.Number, `/\`) {
		return nil, fmt.Errorf("%s: %w: %q", recordPath, ErrInvalidInvoiceNumber, rec.Number)
	}

	doc, err := docx.Read(g.template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}

	report, err := Merge(doc, rec, g.mergeOpts...)
	if err != nil {
		return nil, err
	}
	if !report.ItemsTable {
		g.logger.Warn("template has no items table; items skipped", zap.String("record", recordPath))
	}

	outDir := g.outDir
	if outDir == "" {
		outDir = filepath.Dir(recordPath)
	}
	if err := fileutil.EnsureDir(outDir); err != nil {
		return nil, err
	}

	docPath := DocumentPath(outDir, rec.Number)
	if err := doc.Save(docPath); err != nil {
		return nil, err
	}

	g.logger.Debug("document filled",
		zap.String("record", recordPath),
		zap.String("document", docPath),
		zap.Int("replacements", report.Replacements),
		zap.Int("rowsFilled", report.RowsFilled),
		zap.Int("rowsAppended", report.RowsAppended),
	)

	return &Result{
		RecordPath:   recordPath,
		Number:       rec.Number,
		DocumentPath: docPath,
		Report:       report,
		Duration:     time.Since(start),
	}, nil
}

// Converter returns the fallback chain used for PDF conversion.
func (g *Generator) Converter() *FallbackConverter {
	return g.converter
}

// Close releases converter resources (headless Chrome browser).
func (g *Generator) Close() error {
	if g.converter != nil {
		return g.converter.Close()
	}
	return nil
}
