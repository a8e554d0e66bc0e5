package invoice

import "errors"

// Sentinel errors for library operations.
var (
	// Record errors.
	ErrRecordNotFound       = errors.New("invoice record not found")
	ErrRecordParse          = errors.New("invalid invoice record")
	ErrMissingField         = errors.New("invoice record is missing a field")
	ErrEmptyInvoiceNumber   = errors.New("invoice number cannot be empty")
	ErrInvalidInvoiceNumber = errors.New("invoice number cannot contain a path separator")

	// Template errors.
	ErrTemplateLoad = errors.New("template could not be loaded")

	// Conversion errors.
	ErrConversionFailed = errors.New("PDF conversion failed")
	ErrNoConverters     = errors.New("no PDF converters configured")
	ErrUnknownConverter = errors.New("unknown converter")
	ErrSofficeNotFound  = errors.New("LibreOffice (soffice) not found")
	ErrConverterOutput  = errors.New("converter did not produce the expected PDF")
	ErrPDFGeneration    = errors.New("PDF generation failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrInvalidTimeout   = errors.New("timeout must be positive")
)
