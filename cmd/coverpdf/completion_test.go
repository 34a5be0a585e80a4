package main

// Notes:
// - Scripts are checked for shell-specific markers and for every command
//   name. Executing them in real shells is left to manual testing.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Per-shell script output
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell   Shell
		markers []string
	}{
		{ShellBash, []string{"_coverpdf_completions", "complete -F", "compgen", "--student-name"}},
		{ShellZsh, []string{"#compdef coverpdf", "_arguments", "_describe"}},
		{ShellFish, []string{"complete -c coverpdf", "__fish_coverpdf_needs_command", "-l student-name"}},
		{ShellPowerShell, []string{"Register-ArgumentCompleter -Native -CommandName coverpdf", "CompletionResult"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion: %v", err)
			}
			out := buf.String()
			for _, m := range tt.markers {
				if !strings.Contains(out, m) {
					t.Errorf("%s script missing %q", tt.shell, m)
				}
			}
			for _, c := range getCommands() {
				if !strings.Contains(out, c.Name) {
					t.Errorf("%s script missing command %q", tt.shell, c.Name)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("err = %v, want ErrUnsupportedShell", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for an unsupported shell", buf.Len())
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Flag metadata from FlagSets
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	byName := map[string]commandDef{}
	for _, c := range getCommands() {
		byName[c.Name] = c
	}
	for _, name := range []string{"generate", "serve", "types", "config", "doctor", "completion", "version", "help"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("command %q missing", name)
		}
	}

	gen := byName["generate"]
	if gen.FilePattern != uploadGlob {
		t.Errorf("generate file pattern = %q, want %q", gen.FilePattern, uploadGlob)
	}

	flags := map[string]flagDef{}
	for _, f := range gen.Flags {
		flags[f.Long] = f
	}

	tests := []struct {
		long  string
		short string
		typ   flagType
	}{
		{"type", "t", flagEnum},
		{"output", "o", flagFile},
		{"config", "c", flagFile},
		{"templates", "", flagDir},
		{"quiet", "q", flagBool},
		{"interactive", "i", flagBool},
		{"student-name", "", flagString},
	}
	for _, tt := range tests {
		f, ok := flags[tt.long]
		if !ok {
			t.Errorf("generate flag --%s missing", tt.long)
			continue
		}
		if f.Short != tt.short || f.Type != tt.typ {
			t.Errorf("--%s = {short %q type %d}, want {short %q type %d}", tt.long, f.Short, f.Type, tt.short, tt.typ)
		}
	}
	if got := flags["type"].Values; len(got) != 2 {
		t.Errorf("--type values = %v, want 2 document types", got)
	}
}

func TestRunCompletion_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if err := runCompletion(nil, env); err != nil {
		t.Fatalf("runCompletion: %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage: coverpdf completion <shell>") {
		t.Errorf("stdout = %q", stdout.String())
	}
}
