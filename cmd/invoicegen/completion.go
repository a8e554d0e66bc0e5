package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long       string // --output
	Short      string // -o (empty if none)
	Desc       string
	TakesValue bool
	FileGlob   string // "*.yaml,*.yml"
	IsDir      bool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for positional arguments, e.g. "*.json"
}

// completionMeta holds completion hints that a FlagSet cannot express.
type completionMeta struct {
	FileGlob string
	IsDir    bool
}

var flagCompletionMeta = map[string]completionMeta{
	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {IsDir: true},
}

// extractFlags lists the flags registered in fs, enriched with
// flagCompletionMeta.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:       f.Name,
			Short:      f.Shorthand,
			Desc:       f.Usage,
			TakesValue: f.Value.Type() != "bool",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.FileGlob = meta.FileGlob
			fd.IsDir = meta.IsDir
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion. Flags come
// from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	common := func(name string, usage func(io.Writer)) []flagDef {
		return extractFlags(commonFlagSet(name, &commonFlags{}, io.Discard, usage))
	}
	return []commandDef{
		{Name: "merge", Desc: "Fill the template with one record and convert it to PDF",
			Flags: extractFlags(mergeFlagSet(&mergeFlags{}, io.Discard)), FilePattern: "*.json"},
		{Name: "collect", Desc: "Open the invoice form only", Flags: common("collect", printCollectUsage)},
		{Name: "scan", Desc: "List recently created records", Flags: extractFlags(scanFlagSet(&scanFlags{}, io.Discard))},
		{Name: "watch", Desc: "Merge records as they are written", Flags: common("watch", printWatchUsage)},
		{Name: "doctor", Desc: "Check which PDF converters are available", Flags: extractFlags(doctorFlagSet(&doctorFlags{}, io.Discard))},
		{Name: "config", Desc: "Print the effective configuration", Flags: common("config", printConfigUsage)},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// batchCompletionFlags are offered before any command is typed.
func batchCompletionFlags() []flagDef {
	return extractFlags(batchFlagSet(&batchFlags{}, io.Discard))
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell name", ErrUsage)
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoicegen completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(invoicegen completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(invoicegen completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    invoicegen completion fish > ~/.config/fish/completions/invoicegen.fish")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for invoicegen\n")
	b.WriteString("_invoicegen() {\n")
	b.WriteString("    local cur prev cmd opts\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, f := range valueFlags(cmds) {
		fmt.Fprintf(&b, "        %s)\n", strings.Join(flagNames(f), "|"))
		switch {
		case f.IsDir:
			b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\"))\n")
		case f.FileGlob != "":
			b.WriteString("            COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		default:
			b.WriteString("            COMPREPLY=()\n")
		}
		b.WriteString("            return\n            ;;\n")
	}
	b.WriteString("    esac\n\n")

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s %s\" -- \"$cur\"))\n",
		strings.Join(names, " "), strings.Join(allFlagNames(batchCompletionFlags()), " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		switch {
		case c.Name == "help":
			fmt.Fprintf(&b, "            opts=\"%s\"\n", strings.Join(names, " "))
		case c.Name == "completion":
			fmt.Fprintf(&b, "            opts=\"%s %s %s\"\n", ShellBash, ShellZsh, ShellFish)
		default:
			fmt.Fprintf(&b, "            opts=\"%s\"\n", strings.Join(allFlagNames(c.Flags), " "))
		}
		b.WriteString("            COMPREPLY=($(compgen -W \"$opts\" -- \"$cur\"))\n")
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "            COMPREPLY+=($(compgen -f -X '!%s' -- \"$cur\"))\n", c.FilePattern)
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("        *)\n            opts=\"" + strings.Join(allFlagNames(batchCompletionFlags()), " ") + "\"\n")
	b.WriteString("            COMPREPLY=($(compgen -W \"$opts\" -- \"$cur\"))\n            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _invoicegen invoicegen\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef invoicegen\n\n")
	b.WriteString("_invoicegen() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe -t commands 'invoicegen command' commands\n")
	b.WriteString("        _arguments")
	for _, f := range batchCompletionFlags() {
		b.WriteString(" \\\n            " + zshFlagSpec(f))
	}
	b.WriteString("\n        return\n    fi\n\n")

	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		switch {
		case c.Name == "help":
			b.WriteString("            _describe -t commands 'command' commands\n")
		case c.Name == "completion":
			fmt.Fprintf(&b, "            _values 'shell' %s %s %s\n", ShellBash, ShellZsh, ShellFish)
		default:
			b.WriteString("            _arguments")
			for _, f := range c.Flags {
				b.WriteString(" \\\n                " + zshFlagSpec(f))
			}
			if c.FilePattern != "" {
				fmt.Fprintf(&b, " \\\n                '*:record:_files -g \"%s\"'", c.FilePattern)
			}
			b.WriteString("\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _invoicegen invoicegen\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments spec, e.g.
// '(-o --output)'{-o,--output}'[output directory]:dir:_files -/'.
func zshFlagSpec(f flagDef) string {
	spec := "[" + zshEscape(f.Desc) + "]"
	if f.TakesValue {
		switch {
		case f.IsDir:
			spec += ":" + f.Long + ":_files -/"
		case f.FileGlob != "":
			spec += ":" + f.Long + ":_files -g \"" + zshGlob(f.FileGlob) + "\""
		default:
			spec += ":" + f.Long + ":"
		}
	}
	if f.Short == "" {
		return "'--" + f.Long + spec + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s'", f.Short, f.Long, f.Short, f.Long, spec)
}

// zshGlob turns "*.yaml,*.yml" into "*.(yaml|yml)".
func zshGlob(glob string) string {
	parts := strings.Split(glob, ",")
	if len(parts) == 1 {
		return glob
	}
	exts := make([]string, len(parts))
	for i, p := range parts {
		exts[i] = strings.TrimPrefix(p, "*.")
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for invoicegen\n")
	b.WriteString("complete -c invoicegen -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c invoicegen -n __fish_use_subcommand -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	for _, f := range batchCompletionFlags() {
		b.WriteString("complete -c invoicegen -n __fish_use_subcommand" + fishFlagSpec(f) + "\n")
	}

	for _, c := range cmds {
		cond := fmt.Sprintf(" -n '__fish_seen_subcommand_from %s'", c.Name)
		switch c.Name {
		case "help":
			names := make([]string, len(cmds))
			for i, cc := range cmds {
				names[i] = cc.Name
			}
			fmt.Fprintf(&b, "complete -c invoicegen%s -a '%s'\n", cond, strings.Join(names, " "))
			continue
		case "completion":
			fmt.Fprintf(&b, "complete -c invoicegen%s -a '%s %s %s'\n", cond, ShellBash, ShellZsh, ShellFish)
			continue
		}
		if len(c.Flags) > 0 || c.FilePattern != "" {
			b.WriteString("\n")
		}
		for _, f := range c.Flags {
			b.WriteString("complete -c invoicegen" + cond + fishFlagSpec(f) + "\n")
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c invoicegen%s -a '(__fish_complete_suffix %s)'\n",
				cond, strings.TrimPrefix(c.FilePattern, "*"))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishFlagSpec(f flagDef) string {
	spec := ""
	if f.Short != "" {
		spec += " -s " + f.Short
	}
	spec += " -l " + f.Long
	switch {
	case f.IsDir:
		spec += " -x -a '(__fish_complete_directories)'"
	case f.FileGlob != "":
		spec += " -r -F"
	case f.TakesValue:
		spec += " -x"
	}
	return spec + " -d " + fishQuote(f.Desc)
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// flagNames returns "-o" and "--output" style names of f.
func flagNames(f flagDef) []string {
	if f.Short == "" {
		return []string{"--" + f.Long}
	}
	return []string{"-" + f.Short, "--" + f.Long}
}

func allFlagNames(flags []flagDef) []string {
	var names []string
	for _, f := range flags {
		names = append(names, flagNames(f)...)
	}
	return names
}

// valueFlags returns every flag taking a value across cmds, once per long name.
func valueFlags(cmds []commandDef) []flagDef {
	seen := make(map[string]bool)
	var out []flagDef
	for _, c := range cmds {
		for _, f := range c.Flags {
			if !f.TakesValue || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			out = append(out, f)
		}
	}
	return out
}
