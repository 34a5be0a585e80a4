package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-coverpdf/internal/dateutil"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // enum flags
	FileGlob string   // file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments; empty = none
}

// completionMeta holds completion hints for flags. Names, types and
// descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// uploadGlob matches the inputs generate adds to the document.
const uploadGlob = "*.pdf,*.png,*.jpg,*.jpeg"

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"type":        {Values: typeShortNames()},
	"log-level":   {Values: []string{"debug", "info", "warn", "error"}},
	"log-format":  {Values: []string{"json", "pretty"}},
	"date":        {Values: []string{"today"}},
	"date-format": {Values: dateFormatPresets()},

	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {FileGlob: "*.pdf"},

	"templates": {IsDir: true},
}

// dateFormatPresets returns the preset names accepted by --date-format.
func dateFormatPresets() []string {
	names := make([]string, 0, len(dateutil.Presets))
	for name := range dateutil.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// extractFlagsFromFlagSet converts a FlagSet into completion definitions.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	generateFS, _ := buildGenerateFlagSet()
	serveFS, _ := buildServeFlagSet()

	return []commandDef{
		{Name: "generate", Desc: "Build a cover page and merge files into one PDF", Flags: extractFlagsFromFlagSet(generateFS), FilePattern: uploadGlob},
		{Name: "serve", Desc: "Run the HTTP upload service", Flags: extractFlagsFromFlagSet(serveFS)},
		{Name: "types", Desc: "List supported document types", Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "JSON output"}}},
		{Name: "config", Desc: "Create or show a profile"},
		{Name: "doctor", Desc: "Check templates, sessions and environment", Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "JSON output"}}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var gen func(*strings.Builder, []commandDef)
	switch shell {
	case ShellBash:
		gen = generateBash
	case ShellZsh:
		gen = generateZsh
	case ShellFish:
		gen = generateFish
	case ShellPowerShell:
		gen = generatePowerShell
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	var b strings.Builder
	gen(&b, getCommands())
	_, err := io.WriteString(w, b.String())
	return err
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# bash completion for coverpdf\n")
	b.WriteString("_coverpdf_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	fmt.Fprintf(b, "    if [[ $COMP_CWORD -eq 1 ]]; then\n        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\") $(compgen -f -- \"$cur\"))\n        return\n    fi\n\n", commandNames(cmds))

	b.WriteString("    case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(b, "        %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return ;;\n", pattern, strings.Join(f.Values, " "))
			case flagFile, flagDir:
				fmt.Fprintf(b, "        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", pattern)
			}
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
		}
		fmt.Fprintf(b, "        %s)\n", c.Name)
		switch {
		case c.Name == "help":
			fmt.Fprintf(b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", commandNames(cmds))
		case c.Name == "completion":
			b.WriteString("            COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\"))\n")
		case c.Name == "config":
			b.WriteString("            COMPREPLY=($(compgen -W \"init show\" -- \"$cur\"))\n")
		case c.FilePattern != "":
			fmt.Fprintf(b, "            if [[ \"$cur\" == -* ]]; then\n                COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n            else\n                COMPREPLY=($(compgen -f -- \"$cur\"))\n            fi\n", strings.Join(opts, " "))
		default:
			fmt.Fprintf(b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(opts, " "))
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n}\n\ncomplete -F _coverpdf_completions coverpdf\n")
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateZsh(b *strings.Builder, cmds []commandDef) {
	b.WriteString("#compdef coverpdf\n\n")
	b.WriteString("_coverpdf() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n        _describe 'command' commands\n        _files\n        return\n    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        %s)\n            _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagEnum:
				action = ":value:(" + strings.Join(f.Values, " ") + ")"
			case flagFile:
				action = ":file:_files"
			case flagDir:
				action = ":directory:_files -/"
			case flagString:
				action = ":value:"
			}
			fmt.Fprintf(b, "                '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), action)
		}
		switch {
		case c.FilePattern != "":
			b.WriteString("                '*:file:_files'\n")
		case c.Name == "completion":
			b.WriteString("                '1:shell:(bash zsh fish powershell)'\n")
		case c.Name == "config":
			b.WriteString("                '1:action:(init show)' '2:file:_files'\n")
		default:
			b.WriteString("                '*::'\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n}\n\ncompdef _coverpdf coverpdf\n")
}

func generateFish(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# fish completion for coverpdf\n")
	b.WriteString("function __fish_coverpdf_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n    test (count $cmd) -eq 1\nend\n\n")
	b.WriteString("function __fish_coverpdf_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\nend\n\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "complete -c coverpdf -n __fish_coverpdf_needs_command -f -a %s -d '%s'\n", c.Name, strings.ReplaceAll(c.Desc, "'", "\\'"))
	}
	for _, c := range cmds {
		cond := "__fish_coverpdf_using_command " + c.Name
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c coverpdf -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile, flagDir:
				line += " -r -F"
			case flagString:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", strings.ReplaceAll(f.Desc, "'", "\\'"))
			b.WriteString(line + "\n")
		}
		if c.FilePattern != "" {
			fmt.Fprintf(b, "complete -c coverpdf -n '%s' -F\n", cond)
		}
	}
	b.WriteString("complete -c coverpdf -n '__fish_coverpdf_using_command completion' -f -a 'bash zsh fish powershell'\n")
	b.WriteString("complete -c coverpdf -n '__fish_coverpdf_using_command config' -f -a 'init show'\n")
}

func generatePowerShell(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# PowerShell completion for coverpdf\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName coverpdf -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "'--"+f.Long+"'")
		}
		fmt.Fprintf(b, "        '%s' = @(%s)\n", c.Name, strings.Join(opts, ", "))
	}
	b.WriteString("    }\n")
	b.WriteString("    if ($words.Count -le 2 -and -not $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $candidates = $flags.Keys\n")
	b.WriteString("    } elseif ($flags.ContainsKey($words[1])) {\n")
	b.WriteString("        $candidates = $flags[$words[1]]\n")
	b.WriteString("    } else {\n        $candidates = @()\n    }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n}\n")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coverpdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(coverpdf completion bash)\"  # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(coverpdf completion zsh)\"   # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        coverpdf completion fish > ~/.config/fish/completions/coverpdf.fish")
	fmt.Fprintln(w, "  PowerShell:  coverpdf completion powershell | Out-String | Invoke-Expression")
}
