package main

// Notes:
// - Tests go through runDoctorCmd and its JSON output.
// - The built-in template set may be empty, so template checks only assert
//   that every type is reported and that a missing template is a warning.
// - Tests that set REDIS_URL or container variables cannot use t.Parallel().

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-coverpdf"
)

func doctorJSON(t *testing.T, args ...string) (doctorResult, int) {
	t.Helper()

	env, stdout, _ := testEnv()
	code := runDoctorCmd(context.Background(), append([]string{"--json"}, args...), env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
	}
	return result, code
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - Structure and status consistency
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("COVERPDF_TEMPLATES", "")

	result, code := doctorJSON(t)

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if result.Env.MaxProcs < 1 {
		t.Errorf("MaxProcs = %d, want >= 1", result.Env.MaxProcs)
	}
	if result.Templates.Source != "embedded" {
		t.Errorf("template source = %q, want embedded", result.Templates.Source)
	}
	if got, want := len(result.Templates.Types), len(coverpdf.SupportedTypes()); got != want {
		t.Errorf("template checks = %d, want %d", got, want)
	}
	for _, tc := range result.Templates.Types {
		if !tc.Found && result.Status == "ready" {
			t.Errorf("%s missing but status is ready", tc.Name)
		}
	}
	if result.Sessions.Store != "memory" || !result.Sessions.Reachable {
		t.Errorf("sessions = %+v, want reachable memory store", result.Sessions)
	}

	if result.Status == "errors" && code != ExitGeneral {
		t.Errorf("exit code = %d for errors status", code)
	}
	if result.Status != "errors" && code != ExitSuccess {
		t.Errorf("exit code = %d for %s status", code, result.Status)
	}
}

func TestRunDoctorCmd_TemplateDirectory(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("COVERPDF_TEMPLATES", "")

	dir := t.TempDir()
	writePDFFixture(t, dir, "lab_report.pdf", 1)

	result, _ := doctorJSON(t, "--templates", dir)

	found := map[string]int{}
	for _, tc := range result.Templates.Types {
		if tc.Found {
			found[tc.Name] = tc.Pages
		}
	}
	if found[string(coverpdf.DocLabReport)] != 1 {
		t.Errorf("lab_report.pdf not found with 1 page: %+v", result.Templates.Types)
	}
}

func TestRunDoctorCmd_InvalidTemplate(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("COVERPDF_TEMPLATES", "")

	dir := t.TempDir()
	writeFixture(t, dir, "assignment.pdf", []byte("not a pdf"))

	result, code := doctorJSON(t, "--templates", dir)

	if result.Status != "errors" || code != ExitGeneral {
		t.Errorf("status = %q code = %d, want errors/%d", result.Status, code, ExitGeneral)
	}
}

func TestRunDoctorCmd_RedisUnreachable(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1/0")
	t.Setenv("COVERPDF_TEMPLATES", "")

	result, code := doctorJSON(t)

	if result.Sessions.Store != "redis" || result.Sessions.Reachable {
		t.Errorf("sessions = %+v, want unreachable redis", result.Sessions)
	}
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
}

func TestRunDoctorCmd_ContainerOverride(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("COVERPDF_TEMPLATES", "")
	t.Setenv("COVERPDF_CONTAINER", "1")
	t.Setenv("PORT", "")

	result, _ := doctorJSON(t)

	if !result.Env.Container || result.Env.ContainerHint != "COVERPDF_CONTAINER=1" {
		t.Errorf("container = %v (%s), want detected via override", result.Env.Container, result.Env.ContainerHint)
	}
	var warned bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "PORT") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("warnings = %v, want PORT warning", result.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_TextOutput
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_TextOutput(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("COVERPDF_TEMPLATES", "")

	env, stdout, _ := testEnv()
	runDoctorCmd(context.Background(), nil, env)

	out := stdout.String()
	for _, want := range []string{"coverpdf doctor", "Templates (embedded)", "Sessions", "Environment", "System", "Status:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := runDoctorCmd(context.Background(), []string{"--colour"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}
