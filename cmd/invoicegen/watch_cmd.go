package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-invoice/internal/fileutil"
	"github.com/alnah/go-invoice/internal/watch"
)

// runWatchCmd merges records as they are written to the input directory
// until interrupted.
func runWatchCmd(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseCommonFlags("watch", args, env.Stderr, printWatchUsage)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}

	cfg, err := loadConfig(flags, env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, flags, env.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run", uuid.NewString()))

	if err := fileutil.EnsureDir(cfg.Input.Dir); err != nil {
		return err
	}

	gen, err := newGenerator(cfg, logger, env, "")
	if err != nil {
		return err
	}
	defer func() { _ = gen.Close() }()

	w, err := watch.New(cfg.Input.Dir, cfg.SettleDelay(), func(ctx context.Context, path string) {
		_ = generateRecord(ctx, gen, path, logger)
	}, watch.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("watching for records",
		zap.String("dir", cfg.Input.Dir),
		zap.Duration("settle", cfg.SettleDelay()),
	)
	err = w.Run(ctx)
	logger.Info("watch stopped")
	return err
}
