package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for a first argument that is neither a
// command nor an input file.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// commands lists the subcommand names. Anything else in first position is
// treated as the start of a generate invocation.
var commands = map[string]bool{
	"generate":   true,
	"serve":      true,
	"types":      true,
	"config":     true,
	"doctor":     true,
	"completion": true,
	"version":    true,
	"help":       true,
}

func isCommand(s string) bool {
	return commands[s]
}

// runMain dispatches args and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch {
	case cmd == "generate":
		err = runGenerate(ctx, rest, env)
	case cmd == "serve":
		err = runServe(ctx, rest, env)
	case cmd == "types":
		err = runTypes(rest, env)
	case cmd == "config":
		err = runConfig(rest, env)
	case cmd == "doctor":
		return runDoctorCmd(ctx, rest, env)
	case cmd == "completion":
		err = runCompletion(rest, env)
	case cmd == "version":
		fmt.Fprintf(env.Stdout, "coverpdf %s\n", Version)
		return ExitSuccess
	case cmd == "help", cmd == "-h", cmd == "--help":
		runHelp(rest, env)
		return ExitSuccess
	case strings.HasPrefix(cmd, "-") || looksLikeUpload(cmd):
		err = runGenerate(ctx, args[1:], env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		printError(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		printError(env.Stderr, err)
	}
	return exitCodeFor(err)
}

// looksLikeUpload reports whether s names a file the generate command
// would read: a known extension or an existing path.
func looksLikeUpload(s string) bool {
	lower := strings.ToLower(s)
	for _, ext := range []string{".pdf", ".png", ".jpg", ".jpeg"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	_, err := os.Stat(s)
	return err == nil
}

// hasVerboseFlag scans raw args before any FlagSet exists.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// hintedError carries an actionable hint printed after the error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. A nil err or empty hint returns err as is.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// printError writes err and its hint, if any.
func printError(w io.Writer, err error) {
	msg := "error: " + err.Error()
	var h *hintedError
	if errors.As(err, &h) {
		msg += h.hint
	}
	fmt.Fprintln(w, msg)
}
