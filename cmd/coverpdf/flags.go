package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidArgs wraps flag parsing and argument count errors.
var ErrInvalidArgs = errors.New("invalid arguments")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// formFlags holds the cover page form fields.
type formFlags struct {
	docType     string
	semester    string
	studentName string
	studentID   string
	batch       string
	section     string
	courseCode  string
	courseName  string
	teacher     string
	designation string
	date        string
	dateFormat  string
}

// templateFlags selects where cover templates come from.
type templateFlags struct {
	source   string
	disabled bool
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common      commonFlags
	output      string
	form        formFlags
	templates   templateFlags
	interactive bool
}

// serveFlags holds flags for the serve command. Unset values keep the
// environment configuration.
type serveFlags struct {
	addr      string
	templates templateFlags
	logLevel  string
	logFormat string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
}

// addFormFlags adds the cover page fields to a FlagSet.
func addFormFlags(fs *flag.FlagSet, f *formFlags) {
	fs.StringVarP(&f.docType, "type", "t", "", "document type: assignment, lab_report")
	fs.StringVar(&f.semester, "semester", "", "semester")
	fs.StringVar(&f.studentName, "student-name", "", "student name")
	fs.StringVar(&f.studentID, "student-id", "", "student ID")
	fs.StringVar(&f.batch, "batch", "", "batch")
	fs.StringVar(&f.section, "section", "", "section")
	fs.StringVar(&f.courseCode, "course-code", "", "course code")
	fs.StringVar(&f.courseName, "course-name", "", "course name")
	fs.StringVar(&f.teacher, "teacher", "", "course teacher name")
	fs.StringVar(&f.designation, "designation", "", "course teacher designation")
	fs.StringVar(&f.date, "date", "", "submission date: YYYY-MM-DD, DD/MM/YY or \"today\"")
	fs.StringVar(&f.dateFormat, "date-format", "", "date on the cover: tokens or preset (submission, iso, european, long)")
}

// addTemplateFlags adds template source flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVar(&f.source, "templates", "", "template directory, http(s) URL or s3:// URL")
	fs.BoolVar(&f.disabled, "no-templates", false, "draw the cover on a blank page")
}

// buildGenerateFlagSet returns the generate FlagSet bound to a fresh
// generateFlags. Completion reads the same FlagSet.
func buildGenerateFlagSet() (*flag.FlagSet, *generateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default DIU.pdf)")
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "prompt for missing fields")

	addCommonFlags(fs, &f.common)
	addFormFlags(fs, &f.form)
	addTemplateFlags(fs, &f.templates)

	return fs, f
}

// parseGenerateFlags parses generate flags and returns the input files in
// the order given.
func parseGenerateFlags(args []string, stderr io.Writer) (*generateFlags, []string, error) {
	fs, f := buildGenerateFlagSet()
	fs.SetOutput(stderr)
	fs.Usage = func() { printGenerateUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapFlagError(err)
	}
	return f, fs.Args(), nil
}

// buildServeFlagSet returns the serve FlagSet.
func buildServeFlagSet() (*flag.FlagSet, *serveFlags) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address, e.g. :8080 (default from PORT)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: json, pretty")
	addTemplateFlags(fs, &f.templates)

	return fs, f
}

// parseServeFlags parses serve flags. Positional arguments are rejected.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs, f := buildServeFlagSet()
	fs.SetOutput(stderr)
	fs.Usage = func() { printServeUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, wrapFlagError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrInvalidArgs, fs.Args())
	}
	return f, nil
}

// wrapFlagError marks parse errors as usage errors. ErrHelp passes through
// so the caller can exit cleanly.
func wrapFlagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
}
