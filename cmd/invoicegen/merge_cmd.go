package main

import (
	"context"
	"fmt"
	"os"
	"time"

	invoice "github.com/alnah/go-invoice"
)

// runMergeCmd merges one record into the template and converts it to PDF.
func runMergeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseMergeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: merge takes exactly one record file", ErrUsage)
	}
	recordPath := rest[0]

	if _, err := os.Stat(recordPath); err != nil {
		return fmt.Errorf("%w: %s", invoice.ErrRecordNotFound, recordPath)
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, &flags.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gen, err := newGenerator(cfg, logger, env, flags.output)
	if err != nil {
		return err
	}
	defer func() { _ = gen.Close() }()

	var res *invoice.Result
	if flags.fillOnly {
		res, err = gen.Fill(recordPath)
	} else {
		res, err = gen.Generate(ctx, recordPath)
	}
	if err != nil {
		return err
	}

	printResult(res, &flags.common, env)
	return nil
}

// printResult reports the files written for one record.
func printResult(res *invoice.Result, flags *commonFlags, env *Environment) {
	if flags.quiet {
		return
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", res.DocumentPath)
	if res.PDFPath == "" {
		return
	}
	if flags.verbose {
		fmt.Fprintf(env.Stdout, "Created %s (%s, %v)\n", res.PDFPath, res.Converter, res.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", res.PDFPath)
}
