package main

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/collector"
	"github.com/alnah/go-invoice/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, environment lookup, and the converter factory.
type Environment struct {
	Now        func() time.Time
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Getenv     func(string) string
	Environ    func() []string
	IsTerminal func() bool

	// NewConverters builds the PDF converters named by the config.
	NewConverters func(cfg *config.Config) ([]invoice.PDFConverter, error)

	// Collect shows the record form and returns the saved record paths.
	Collect func(ctx context.Context, cfg collector.Config, in io.Reader, out io.Writer) ([]string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		NewConverters: buildConverters,
		Collect:       collector.Run,
	}
}
