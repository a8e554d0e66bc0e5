package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/assets"
	"github.com/alnah/go-invoice/internal/config"
)

// buildConverters creates the converters listed in converters.order, in order.
func buildConverters(cfg *config.Config) ([]invoice.PDFConverter, error) {
	convs := make([]invoice.PDFConverter, 0, len(cfg.Converters.Order))
	for _, name := range cfg.Converters.Order {
		switch name {
		case invoice.ConverterLibreOffice:
			opts := []invoice.LibreOfficeOption{invoice.WithSofficeTimeout(cfg.LibreOfficeTimeout())}
			if p := cfg.Converters.LibreOffice.Path; p != "" {
				opts = append(opts, invoice.WithSofficePath(p))
			}
			convs = append(convs, invoice.NewLibreOfficeConverter(opts...))

		case invoice.ConverterChrome:
			style, err := loadStyle(cfg)
			if err != nil {
				return nil, err
			}
			opts := []invoice.ChromeOption{invoice.WithChromeStyle(style)}
			if d := cfg.ChromeTimeout(); d > 0 {
				opts = append(opts, invoice.WithChromeTimeout(d))
			}
			chrome, err := invoice.NewChromeConverter(opts...)
			if err != nil {
				return nil, err
			}
			convs = append(convs, chrome)

		default:
			return nil, fmt.Errorf("%w: %q", invoice.ErrUnknownConverter, name)
		}
	}
	return convs, nil
}

// loadStyle returns the Chrome stylesheet, preferring assets.basePath.
func loadStyle(cfg *config.Config) (string, error) {
	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return "", fmt.Errorf("assets: %w", err)
	}
	return resolver.LoadStyle(assets.DefaultStyleName)
}

// loadTemplate returns template.path, or the built-in template resolved
// through assets.basePath.
func loadTemplate(cfg *config.Config) ([]byte, error) {
	if p := cfg.Template.Path; p != "" {
		data, err := os.ReadFile(p) // #nosec G304 -- template path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %w", invoice.ErrTemplateLoad, err)
		}
		return data, nil
	}

	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	data, err := resolver.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", invoice.ErrTemplateLoad, err)
	}
	return data, nil
}

// newGenerator wires a Generator from configuration. outDir overrides
// output.dir when not empty.
func newGenerator(cfg *config.Config, logger *zap.Logger, env *Environment, outDir string) (*invoice.Generator, error) {
	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return nil, err
	}

	convs, err := env.NewConverters(cfg)
	if err != nil {
		return nil, err
	}

	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	gen, err := invoice.NewGenerator(
		invoice.WithLogger(logger),
		invoice.WithConverters(convs...),
		invoice.WithTemplate(tmpl),
		invoice.WithOutputDir(outDir),
		invoice.WithMergeOptions(invoice.WithCurrency(cfg.Template.Currency)),
	)
	if err != nil {
		_ = invoice.NewFallbackConverter(nil, convs...).Close()
		return nil, err
	}
	return gen, nil
}
