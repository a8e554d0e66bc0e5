package main

import (
	"fmt"
	"time"

	invoice "github.com/alnah/go-invoice"
)

// runScanCmd lists the records created within the look-back window,
// newest first.
func runScanCmd(args []string, env *Environment) error {
	flags, rest, err := parseScanFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}
	if flags.hours < 0 {
		return fmt.Errorf("%w: --hours must not be negative", ErrUsage)
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}

	window := cfg.ScanWindow()
	if flags.hours > 0 {
		window = time.Duration(flags.hours * float64(time.Hour))
	}

	files, err := invoice.RecentFiles(cfg.Input.Dir, window)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.Input.Dir, err)
	}

	for _, f := range files {
		fmt.Fprintln(env.Stdout, f)
	}
	if !flags.common.quiet && len(files) == 0 {
		fmt.Fprintf(env.Stderr, "No records in %s from the last %v\n", cfg.Input.Dir, window)
	}
	return nil
}
