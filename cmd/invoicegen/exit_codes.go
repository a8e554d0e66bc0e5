package main

import (
	"errors"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/assets"
	"github.com/alnah/go-invoice/internal/config"
	"github.com/alnah/go-invoice/internal/logging"
)

// Exit codes for the invoicegen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Success, including batches with failed items
	ExitGeneral   = 1 // General error, missing input, failed merge
	ExitUsage     = 2 // Invalid flags, arguments, or config
	ExitConverter = 4 // No PDF converter could run
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Converter availability (exit 4)
	if errors.Is(err, invoice.ErrConversionFailed) ||
		errors.Is(err, invoice.ErrNoConverters) {
		return ExitConverter
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrNotTerminal) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, invoice.ErrUnknownConverter) ||
		errors.Is(err, invoice.ErrTemplateLoad) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	return ExitGeneral
}
