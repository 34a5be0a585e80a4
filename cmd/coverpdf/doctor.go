package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/server"
)

// doctorTimeout bounds each network check.
const doctorTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Templates templatesInfo `json:"templates"`
	Sessions  sessionsInfo  `json:"sessions"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// templatesInfo holds the template lookup per document type.
type templatesInfo struct {
	Source string          `json:"source"` // "embedded" or the configured location
	Types  []templateCheck `json:"types"`
}

type templateCheck struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Pages int    `json:"pages,omitempty"`
}

// sessionsInfo describes the store "serve" would use.
type sessionsInfo struct {
	Store     string `json:"store"` // "memory" or "redis"
	Reachable bool   `json:"reachable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	MaxProcs      int    `json:"max_procs"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	jsonOutput := fs.Bool("json", false, "machine-readable output")
	templates := fs.String("templates", os.Getenv("COVERPDF_TEMPLATES"), "template location to check")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		printError(env.Stderr, wrapFlagError(err))
		return ExitUsage
	}

	result := runDoctor(ctx, *templates)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, templates string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			MaxProcs: runtime.GOMAXPROCS(0),
		},
	}

	checkTemplates(ctx, result, templates)
	checkSessions(ctx, result, os.Getenv("REDIS_URL"))
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkTemplates loads and validates the template of every document type.
// A missing template is a warning: the cover is then drawn on a blank page.
func checkTemplates(ctx context.Context, result *doctorResult, location string) {
	result.Templates.Source = location
	if location == "" {
		result.Templates.Source = "embedded"
	}

	src, err := coverpdf.OpenTemplateSource(location)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	for _, t := range coverpdf.SupportedTypes() {
		check := templateCheck{Name: string(t)}
		tctx, cancel := context.WithTimeout(ctx, doctorTimeout)
		b, err := src.LoadTemplate(tctx, string(t))
		cancel()
		switch {
		case err != nil:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("No template for %s, the cover will be drawn on a blank page", t))
		default:
			pages, perr := coverpdf.PageCount(b)
			if perr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Template %s is not a valid PDF: %v", t, perr))
				break
			}
			check.Found = true
			check.Pages = pages
		}
		result.Templates.Types = append(result.Templates.Types, check)
	}
}

// checkSessions pings Redis when REDIS_URL is set.
func checkSessions(ctx context.Context, result *doctorResult, redisURL string) {
	if redisURL == "" {
		result.Sessions = sessionsInfo{Store: "memory", Reachable: true}
		return
	}
	result.Sessions.Store = "redis"

	pctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()
	rdb, err := server.NewRedisClient(pctx, redisURL, zerolog.Nop())
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Redis not reachable: %v", err))
		return
	}
	_ = rdb.Close()
	result.Sessions.Reachable = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.Container && os.Getenv("PORT") == "" {
		result.Warnings = append(result.Warnings,
			"Container detected but PORT not set; serve will listen on :8080")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("COVERPDF_CONTAINER") == "1" {
		return true, "COVERPDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for atomic writes.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	f, err := os.CreateTemp(tmpDir, "coverpdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "coverpdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Templates (%s)\n", r.Templates.Source)
	for _, t := range r.Templates.Types {
		if t.Found {
			fmt.Fprintf(w, "  [OK] %s: %d page(s)\n", t.Name, t.Pages)
		} else {
			fmt.Fprintf(w, "  [WARN] %s: blank cover fallback\n", t.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Sessions")
	if r.Sessions.Reachable {
		fmt.Fprintf(w, "  [OK] Store: %s\n", r.Sessions.Store)
	} else {
		fmt.Fprintf(w, "  [ERROR] Store: %s unreachable\n", r.Sessions.Store)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s (GOMAXPROCS %d)\n", r.Env.OS, r.Env.Arch, r.Env.MaxProcs)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", e)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: READY")
	case "warnings":
		fmt.Fprintln(w, "Status: READY (with warnings)")
	default:
		fmt.Fprintln(w, "Status: NOT READY")
	}
}
