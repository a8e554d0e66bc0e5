package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without a command, invoicegen opens the invoice form, waits for the")
	fmt.Fprintln(w, "settle delay, then merges every record created in the scan window.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  merge      Fill the template with one record and convert it to PDF")
	fmt.Fprintln(w, "  collect    Open the invoice form only")
	fmt.Fprintln(w, "  scan       List recently created records")
	fmt.Fprintln(w, "  watch      Merge records as they are written")
	fmt.Fprintln(w, "  doctor     Check which PDF converters are available")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch flags:")
	fmt.Fprintln(w, "      --skip-collect        Do not open the form")
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'invoicegen help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printMergeUsage prints usage for the merge command.
func printMergeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen merge <record.json> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fill the invoice template with a record and convert it to PDF.")
	fmt.Fprintln(w, "Writes invoice_<number>.docx and invoice_<number>.pdf.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to the record)")
	fmt.Fprintln(w, "      --fill-only           Write the .docx only")
	printCommonFlags(w)
}

// printCollectUsage prints usage for the collect command.
func printCollectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen collect [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open the invoice form and save records to input.dir.")
	fmt.Fprintln(w, "Keys: tab/shift+tab move, ctrl+n add row, ctrl+s save, esc quit.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonFlags(w)
}

// printScanUsage prints usage for the scan command.
func printScanUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen scan [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List records in input.dir created within the window, newest first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --hours <n>           Look-back window in hours (default: scan.windowHours)")
	printCommonFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge each record written to input.dir once it has settled.")
	fmt.Fprintln(w, "Stops on interrupt.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check LibreOffice, Chrome, and the directories invoicegen writes to.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	printCommonFlags(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after the config file and INVOICEGEN_*")
	fmt.Fprintln(w, "variables are applied.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	printCommonFlags(w)
}

// usageFor maps command names to their usage printers.
var usageFor = map[string]func(io.Writer){
	"merge":      printMergeUsage,
	"collect":    printCollectUsage,
	"scan":       printScanUsage,
	"watch":      printWatchUsage,
	"doctor":     printDoctorUsage,
	"config":     printConfigUsage,
	"completion": printCompletionUsage,
	"version": func(w io.Writer) {
		fmt.Fprintln(w, "Usage: invoicegen version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	},
	"help": func(w io.Writer) {
		fmt.Fprintln(w, "Usage: invoicegen help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	},
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	usage, ok := usageFor[args[0]]
	if !ok {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	usage(env.Stdout)
	return nil
}
