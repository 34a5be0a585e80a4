package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-coverpdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunConfigInit
// ---------------------------------------------------------------------------

func TestRunConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles", "fall.yaml")

	env, stdout, _ := testEnv()
	if err := runConfig([]string{"init", path}, env); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout.String(), "Wrote "+path) {
		t.Errorf("stdout = %q", stdout.String())
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig(%s): %v", path, err)
	}
	if diff := cmp.Diff(config.SampleConfig(), cfg); diff != "" {
		t.Errorf("written profile mismatch (-want +got):\n%s", diff)
	}
}

func TestRunConfigInit_Exists(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, t.TempDir(), "mine.yaml", []byte("student:\n  name: Keep Me\n"))

	env, _, _ := testEnv()
	err := runConfig([]string{"init", path}, env)
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("err = %v, want ErrConfigExists", err)
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error %q missing --force hint", err)
	}
	data, _ := os.ReadFile(path) // #nosec G304 -- test file
	if !strings.Contains(string(data), "Keep Me") {
		t.Error("existing profile was overwritten")
	}

	if err := runConfig([]string{"init", "--force", path}, env); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
	data, _ = os.ReadFile(path) // #nosec G304 -- test file
	if strings.Contains(string(data), "Keep Me") {
		t.Error("--force did not overwrite the profile")
	}
}

func TestRunConfigInit_TooManyArgs(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if err := runConfig([]string{"init", "a.yaml", "b.yaml"}, env); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("err = %v, want ErrInvalidArgs", err)
	}
}

// ---------------------------------------------------------------------------
// TestRunConfigShow
// ---------------------------------------------------------------------------

func TestRunConfigShow(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, t.TempDir(), "lab.yaml", []byte(
		"document:\n  type: lab_report\nstudent:\n  name: Rahim Uddin\n"))

	env, stdout, _ := testEnv()
	if err := runConfig([]string{"show", path}, env); err != nil {
		t.Fatalf("config show: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"type: lab_report", "name: Rahim Uddin"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunConfigShow_Errors(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if err := runConfig([]string{"show"}, env); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("no args: err = %v, want ErrInvalidArgs", err)
	}

	missing := filepath.Join(t.TempDir(), "none.yaml")
	if err := runConfig([]string{"show", missing}, env); err == nil {
		t.Error("missing profile: expected error")
	}
}

// ---------------------------------------------------------------------------
// TestProfilePath
// ---------------------------------------------------------------------------

func TestProfilePath(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"./x.yaml", "sub/dir/profile", "fall.yml", "FALL.YAML"} {
		got, err := profilePath(p)
		if err != nil {
			t.Fatalf("profilePath(%q): %v", p, err)
		}
		if got != p {
			t.Errorf("profilePath(%q) = %q, want unchanged", p, got)
		}
	}

	got, err := profilePath("fall")
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if filepath.Base(got) != "fall.yaml" || filepath.Base(filepath.Dir(got)) != config.AppDir {
		t.Errorf("profilePath(fall) = %q, want <config>/%s/fall.yaml", got, config.AppDir)
	}
}
