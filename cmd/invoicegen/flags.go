package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// batchFlags holds flags for the default batch run.
type batchFlags struct {
	common      commonFlags
	skipCollect bool
}

// mergeFlags holds flags for the merge command.
type mergeFlags struct {
	common   commonFlags
	output   string
	fillOnly bool
}

// scanFlags holds flags for the scan command.
type scanFlags struct {
	common commonFlags
	hours  float64
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting and
// prints usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return fs.Args(), nil
}

// batchFlagSet registers the batch flags into f.
func batchFlagSet(f *batchFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("invoicegen", w, printUsage)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.skipCollect, "skip-collect", false, "skip the form and only merge recent records")
	return fs
}

// mergeFlagSet registers the merge flags into f.
func mergeFlagSet(f *mergeFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("merge", w, printMergeUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to the record)")
	fs.BoolVar(&f.fillOnly, "fill-only", false, "write the .docx only, skip PDF conversion")
	return fs
}

// scanFlagSet registers the scan flags into f.
func scanFlagSet(f *scanFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("scan", w, printScanUsage)
	addCommonFlags(fs, &f.common)
	fs.Float64Var(&f.hours, "hours", 0, "look-back window in hours (default: scan.windowHours)")
	return fs
}

// doctorFlagSet registers the doctor flags into f.
func doctorFlagSet(f *doctorFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("doctor", w, printDoctorUsage)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	return fs
}

// commonFlagSet registers the common flags into f, for commands that
// take nothing else.
func commonFlagSet(name string, f *commonFlags, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := newFlagSet(name, w, usage)
	addCommonFlags(fs, f)
	return fs
}

// parseBatchFlags parses flags of the batch run.
func parseBatchFlags(args []string, w io.Writer) (*batchFlags, []string, error) {
	f := &batchFlags{}
	rest, err := parseFlagSet(batchFlagSet(f, w), args)
	return f, rest, err
}

// parseMergeFlags parses merge command flags and returns positional args.
func parseMergeFlags(args []string, w io.Writer) (*mergeFlags, []string, error) {
	f := &mergeFlags{}
	rest, err := parseFlagSet(mergeFlagSet(f, w), args)
	return f, rest, err
}

// parseScanFlags parses scan command flags.
func parseScanFlags(args []string, w io.Writer) (*scanFlags, []string, error) {
	f := &scanFlags{}
	rest, err := parseFlagSet(scanFlagSet(f, w), args)
	return f, rest, err
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, []string, error) {
	f := &doctorFlags{}
	rest, err := parseFlagSet(doctorFlagSet(f, w), args)
	return f, rest, err
}

// parseCommonFlags parses commands that only take the common flags.
func parseCommonFlags(name string, args []string, w io.Writer, usage func(io.Writer)) (*commonFlags, []string, error) {
	f := &commonFlags{}
	rest, err := parseFlagSet(commonFlagSet(name, f, w, usage), args)
	return f, rest, err
}
