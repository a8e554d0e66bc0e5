package main

import (
	"context"
	"fmt"
)

// runCollectCmd shows the record form on its own, without merging.
func runCollectCmd(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseCommonFlags("collect", args, env.Stderr, printCollectUsage)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}
	if !env.IsTerminal() {
		return ErrNotTerminal
	}

	cfg, err := loadConfig(flags, env)
	if err != nil {
		return err
	}

	saved, err := env.Collect(ctx, collectorConfig(cfg, env), env.Stdin, env.Stdout)
	if !flags.quiet {
		for _, path := range saved {
			fmt.Fprintf(env.Stdout, "Saved %s\n", path)
		}
	}
	return err
}
