package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/collector"
	"github.com/alnah/go-invoice/internal/config"
)

// batchSummary counts the outcome of the merge step.
type batchSummary struct {
	Found     int
	Succeeded int
	Failed    int
}

// runBatch is the default command: collect records, wait for the settle
// delay, scan for recent records and merge each one. Per-record failures
// are logged and do not fail the run.
func runBatch(ctx context.Context, args []string, env *Environment) error {
	flags, rest, err := parseBatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, rest[0])
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, &flags.common, env.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run", uuid.NewString()))

	start := env.Now()
	logger.Info("batch started", zap.String("dir", cfg.Input.Dir))

	collect(ctx, flags.skipCollect, cfg, env, logger)

	if err := sleepContext(ctx, cfg.SettleDelay()); err != nil {
		return err
	}

	files, err := invoice.RecentFiles(cfg.Input.Dir, cfg.ScanWindow())
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.Input.Dir, err)
	}
	if len(files) == 0 {
		logger.Info("no recent records", zap.String("dir", cfg.Input.Dir), zap.Duration("window", cfg.ScanWindow()))
		return nil
	}
	logger.Info("records found", zap.Int("count", len(files)))

	gen, err := newGenerator(cfg, logger, env, "")
	if err != nil {
		return err
	}
	defer func() { _ = gen.Close() }()

	summary := mergeAll(ctx, gen, files, logger)
	logger.Info("batch finished",
		zap.Int("found", summary.Found),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", env.Now().Sub(start)),
	)
	return ctx.Err()
}

// collect runs the form when a terminal is attached.
func collect(ctx context.Context, skip bool, cfg *config.Config, env *Environment, logger *zap.Logger) {
	switch {
	case skip:
		logger.Debug("form skipped")
		return
	case !env.IsTerminal():
		logger.Warn("no terminal attached; form skipped")
		return
	}

	saved, err := env.Collect(ctx, collectorConfig(cfg, env), env.Stdin, env.Stdout)
	if err != nil {
		logger.Error("form failed", zap.Error(err))
	}
	logger.Info("form closed", zap.Strings("saved", saved))
}

func collectorConfig(cfg *config.Config, env *Environment) collector.Config {
	return collector.Config{
		Dir:        cfg.Input.Dir,
		Rows:       cfg.Collector.Rows,
		DateFormat: cfg.Collector.DateFormat,
		Now:        env.Now,
	}
}

// mergeAll generates every record in order, stopping early only on cancellation.
func mergeAll(ctx context.Context, gen *invoice.Generator, files []string, logger *zap.Logger) batchSummary {
	summary := batchSummary{Found: len(files)}
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		if err := generateRecord(ctx, gen, path, logger); err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
	}
	return summary
}

// generateRecord generates one record and logs a failure.
func generateRecord(ctx context.Context, gen *invoice.Generator, path string, logger *zap.Logger) error {
	logger.Info("merging record", zap.String("record", path))
	if _, err := gen.Generate(ctx, path); err != nil {
		logger.Error("invoice failed", zap.String("record", path), zap.Error(err))
		return err
	}
	return nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
