package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-invoice/internal/assets"
	"github.com/alnah/go-invoice/internal/docx"
	"github.com/alnah/go-invoice/internal/fileutil"
	"github.com/alnah/go-invoice/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownRenderer     = pipeline.DocxMarkdown{}
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// defaultChromeTimeout is used when no timeout is specified.
const defaultChromeTimeout = 30 * time.Second

// ChromeConverter converts documents without LibreOffice: the document is
// rendered to Markdown, then to styled HTML, then printed to PDF by
// headless Chrome. Layout is simpler than a word processor's but every
// table and paragraph of the invoice is kept.
type ChromeConverter struct {
	timeout       time.Duration
	css           string
	markdown      pipeline.MarkdownRenderer
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	renderer      pdfRenderer
}

// ChromeOption configures a ChromeConverter.
type ChromeOption func(*ChromeConverter)

// WithChromeTimeout sets the page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithChromeTimeout(d time.Duration) ChromeOption {
	if d <= 0 {
		panic("invoice: WithChromeTimeout duration must be positive")
	}
	return func(c *ChromeConverter) {
		c.timeout = d
	}
}

// WithChromeStyle replaces the embedded invoice stylesheet.
func WithChromeStyle(css string) ChromeOption {
	return func(c *ChromeConverter) {
		c.css = css
	}
}

// NewChromeConverter creates a converter with the embedded invoice
// stylesheet. The browser is started on first use.
func NewChromeConverter(opts ...ChromeOption) (*ChromeConverter, error) {
	c := &ChromeConverter{
		timeout:       defaultChromeTimeout,
		markdown:      pipeline.DocxMarkdown{},
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.css == "" {
		css, err := assets.LoadStyle(assets.DefaultStyleName)
		if err != nil {
			return nil, fmt.Errorf("loading default style: %w", err)
		}
		c.css = css
	}
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.timeout)
	}
	return c, nil
}

// Name implements PDFConverter.
func (c *ChromeConverter) Name() string {
	return ConverterChrome
}

// ToPDF renders docPath and writes outDir/<doc base>.pdf.
func (c *ChromeConverter) ToPDF(ctx context.Context, docPath, outDir string) (string, error) {
	doc, err := docx.Open(docPath)
	if err != nil {
		return "", fmt.Errorf("opening document: %w", err)
	}

	htmlContent, err := c.HTML(ctx, doc)
	if err != nil {
		return "", err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return "", err
	}
	defer cleanup()

	pdf, err := c.renderer.RenderFromFile(ctx, tmpPath)
	if err != nil {
		return "", fmt.Errorf("converting to PDF: %w", err)
	}

	pdfPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))+PDFExt)
	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return "", fmt.Errorf("writing PDF: %w", err)
	}
	return pdfPath, nil
}

// HTML renders doc to a standalone, styled HTML page.
func (c *ChromeConverter) HTML(ctx context.Context, doc *docx.Document) (string, error) {
	md, err := c.markdown.ToMarkdown(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}

	md = c.preprocessor.PreprocessMarkdown(ctx, md)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.css)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return htmlContent, nil
}

// Close releases resources (headless Chrome browser).
func (c *ChromeConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
