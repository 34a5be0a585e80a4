package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coverpdf <command> [flags] [args]")
	fmt.Fprintln(w, "       coverpdf [flags] <files...>    (same as generate)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate    Build a cover page and merge images and PDFs behind it")
	fmt.Fprintln(w, "  serve       Run the HTTP upload service")
	fmt.Fprintln(w, "  types       List supported document types")
	fmt.Fprintln(w, "  config      Create or show a profile")
	fmt.Fprintln(w, "  doctor      Check templates, sessions and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'coverpdf help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coverpdf generate [files...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build one PDF: a generated cover page, then each file in the order given.")
	fmt.Fprintln(w, "Images (JPEG, PNG) get one A4 page each; PDFs keep all their pages.")
	fmt.Fprintln(w, "Other files are ignored with a notice. With no files, only the cover is written.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -t, --type <s>            Document type: assignment, lab_report (default assignment)")
	fmt.Fprintln(w, "      --semester <s>        Semester")
	fmt.Fprintln(w, "      --date <s>            Submission date: YYYY-MM-DD, DD/MM/YY or \"today\"")
	fmt.Fprintln(w, "                            Empty = today")
	fmt.Fprintln(w, "      --date-format <s>     Date on the cover: tokens (DD, MM, YY, YYYY, MMM, MMMM)")
	fmt.Fprintln(w, "                            or preset: submission, iso, european, long (default DD/MM/YY)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Student:")
	fmt.Fprintln(w, "      --student-name <s>    Student name")
	fmt.Fprintln(w, "      --student-id <s>      Student ID")
	fmt.Fprintln(w, "      --batch <s>           Batch")
	fmt.Fprintln(w, "      --section <s>         Section")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Course:")
	fmt.Fprintln(w, "      --course-code <s>     Course code")
	fmt.Fprintln(w, "      --course-name <s>     Course name")
	fmt.Fprintln(w, "      --teacher <s>         Course teacher name")
	fmt.Fprintln(w, "      --designation <s>     Course teacher designation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (default DIU.pdf)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -i, --interactive         Prompt for missing fields")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Templates:")
	fmt.Fprintln(w, "      --templates <loc>     Directory, http(s) URL or s3://host/bucket/prefix")
	fmt.Fprintln(w, "      --no-templates        Draw the cover on a blank page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  COVERPDF_CONFIG, COVERPDF_TEMPLATES, COVERPDF_OUTPUT_DIR, COVERPDF_TYPE,")
	fmt.Fprintln(w, "  COVERPDF_SEMESTER, COVERPDF_STUDENT_NAME, COVERPDF_STUDENT_ID, COVERPDF_BATCH,")
	fmt.Fprintln(w, "  COVERPDF_SECTION, COVERPDF_COURSE_CODE, COVERPDF_COURSE_NAME, COVERPDF_TEACHER,")
	fmt.Fprintln(w, "  COVERPDF_DESIGNATION, COVERPDF_DATE, COVERPDF_DATE_FORMAT")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coverpdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP upload service. Configuration comes from the environment")
	fmt.Fprintln(w, "and an optional .env file; flags override it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (PORT)")
	fmt.Fprintln(w, "      --templates <loc>     Template location (TEMPLATES)")
	fmt.Fprintln(w, "      --no-templates        Draw covers on a blank page")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error (LOG_LEVEL)")
	fmt.Fprintln(w, "      --log-format <s>      json, pretty (LOG_FORMAT)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  REDIS_URL                 Keep sessions in Redis instead of memory")
	fmt.Fprintln(w, "  MAX_UPLOAD_SIZE_MB        Request body limit (default 32)")
	fmt.Fprintln(w, "  SESSION_TTL_MINUTES       Idle session lifetime (default 60)")
	fmt.Fprintln(w, "  MAX_SESSION_FILES         Files per session (default 50)")
	fmt.Fprintln(w, "  ALLOWED_ORIGINS           Comma-separated CORS origins (default any)")
	fmt.Fprintln(w, "  GIN_MODE                  debug, release (default release)")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coverpdf config init [name|path] [--force]")
	fmt.Fprintln(w, "       coverpdf config show <name|path>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "init writes a sample profile. A bare name goes to the user config")
	fmt.Fprintln(w, "directory (go-coverpdf/<name>.yaml); default name is \"default\".")
	fmt.Fprintln(w, "show prints a profile with defaults applied.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coverpdf doctor [--json] [--templates <loc>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that cover templates load, that REDIS_URL is reachable when set,")
	fmt.Fprintln(w, "and that the temp directory is writable.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "types":
		fmt.Fprintln(env.Stdout, "Usage: coverpdf types [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List supported document types with their marks and criteria.")
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: coverpdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: coverpdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
