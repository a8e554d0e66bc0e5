package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	invoice "github.com/alnah/go-invoice"
	"github.com/alnah/go-invoice/internal/config"
	"github.com/alnah/go-invoice/internal/fileutil"
	"github.com/alnah/go-invoice/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	env := DefaultEnv()
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintln(env.Stderr, "warning:", err)
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], env)
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and maps its error to an exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cmd, rest := "", args
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, rest = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "":
		err = runBatch(ctx, rest, env)
	case "merge":
		err = runMergeCmd(ctx, rest, env)
	case "collect":
		err = runCollectCmd(ctx, rest, env)
	case "scan":
		err = runScanCmd(rest, env)
	case "watch":
		err = runWatchCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "config":
		err = runConfigCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "invoicegen %s\n", Version)
	case "help":
		err = runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "invoicegen: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, invoice.ErrConversionFailed):
		return hints.ForConversionFailed()
	case errors.Is(err, invoice.ErrSofficeNotFound):
		return hints.ForLibreOfficeNotFound()
	case errors.Is(err, invoice.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, invoice.ErrMissingField):
		return hints.ForMissingField()
	case errors.Is(err, invoice.ErrTemplateLoad):
		return hints.ForTemplate()
	case errors.Is(err, fileutil.ErrNotDirectory):
		return hints.ForOutputDirectory()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(err))
	}
	return ""
}

// configSearchPaths extracts the paths listed in a "tried a, b" config error.
func configSearchPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}
