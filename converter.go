package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Converter names, as used in configuration.
const (
	ConverterLibreOffice = "libreoffice"
	ConverterChrome      = "chrome"
)

// PDFConverter turns a filled document into a PDF inside outDir and
// returns the PDF path.
type PDFConverter interface {
	Name() string
	ToPDF(ctx context.Context, docPath, outDir string) (string, error)
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ PDFConverter = (*FallbackConverter)(nil)
	_ PDFConverter = (*LibreOfficeConverter)(nil)
	_ PDFConverter = (*ChromeConverter)(nil)
)

// Conversion describes a successful fallback conversion.
type Conversion struct {
	PDFPath   string
	Converter string  // name of the converter that succeeded
	Failures  []error // failures of the converters tried before it
}

// FallbackConverter tries converters in order until one succeeds.
type FallbackConverter struct {
	converters []PDFConverter
	logger     *zap.Logger
}

// NewFallbackConverter chains converters; the first is the primary.
// A nil logger discards log output.
func NewFallbackConverter(logger *zap.Logger, converters ...PDFConverter) *FallbackConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackConverter{converters: converters, logger: logger}
}

// Name lists the chained converters, e.g. "libreoffice,chrome".
func (f *FallbackConverter) Name() string {
	names := make([]string, len(f.converters))
	for i, c := range f.converters {
		names[i] = c.Name()
	}
	return strings.Join(names, ",")
}

// Converters returns the chained converters in order.
func (f *FallbackConverter) Converters() []PDFConverter {
	return f.converters
}

// ToPDF implements PDFConverter.
func (f *FallbackConverter) ToPDF(ctx context.Context, docPath, outDir string) (string, error) {
	conv, err := f.Convert(ctx, docPath, outDir)
	if err != nil {
		return "", err
	}
	return conv.PDFPath, nil
}

// Convert runs the chain. The failure of one converter triggers the next;
// when all fail the error wraps ErrConversionFailed and every cause.
// Cancellation stops the chain.
func (f *FallbackConverter) Convert(ctx context.Context, docPath, outDir string) (*Conversion, error) {
	if len(f.converters) == 0 {
		return nil, ErrNoConverters
	}

	var failures []error
	for _, c := range f.converters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pdfPath, err := c.ToPDF(ctx, docPath, outDir)
		if err == nil {
			return &Conversion{PDFPath: pdfPath, Converter: c.Name(), Failures: failures}, nil
		}

		failures = append(failures, fmt.Errorf("%s: %w", c.Name(), err))
		f.logger.Warn("converter failed",
			zap.String("converter", c.Name()),
			zap.String("document", docPath),
			zap.Error(err),
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", ErrConversionFailed, errors.Join(failures...))
}

// Close closes every chained converter.
func (f *FallbackConverter) Close() error {
	var errs []error
	for _, c := range f.converters {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}
