package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-coverpdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Lets a shell profile or CI job prefill the form without a YAML file.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // COVERPDF_CONFIG: config name or path
	Templates  string // COVERPDF_TEMPLATES: template location
	OutputDir  string // COVERPDF_OUTPUT_DIR: default output directory

	// Tier 2 - Identity
	StudentName string // COVERPDF_STUDENT_NAME
	StudentID   string // COVERPDF_STUDENT_ID
	Batch       string // COVERPDF_BATCH
	Section     string // COVERPDF_SECTION

	// Tier 3 - Course and document
	Type        string // COVERPDF_TYPE: assignment or lab_report
	Semester    string // COVERPDF_SEMESTER
	CourseCode  string // COVERPDF_COURSE_CODE
	CourseName  string // COVERPDF_COURSE_NAME
	Teacher     string // COVERPDF_TEACHER
	Designation string // COVERPDF_DESIGNATION
	Date        string // COVERPDF_DATE
	DateFormat  string // COVERPDF_DATE_FORMAT
}

// knownEnvVars lists valid COVERPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"COVERPDF_CONFIG":     true,
	"COVERPDF_TEMPLATES":  true,
	"COVERPDF_OUTPUT_DIR": true,
	// Tier 2 - Identity
	"COVERPDF_STUDENT_NAME": true,
	"COVERPDF_STUDENT_ID":   true,
	"COVERPDF_BATCH":        true,
	"COVERPDF_SECTION":      true,
	// Tier 3 - Course and document
	"COVERPDF_TYPE":        true,
	"COVERPDF_SEMESTER":    true,
	"COVERPDF_COURSE_CODE": true,
	"COVERPDF_COURSE_NAME": true,
	"COVERPDF_TEACHER":     true,
	"COVERPDF_DESIGNATION": true,
	"COVERPDF_DATE":        true,
	"COVERPDF_DATE_FORMAT": true,
	// Read by doctor
	"COVERPDF_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:  os.Getenv("COVERPDF_CONFIG"),
		Templates:   os.Getenv("COVERPDF_TEMPLATES"),
		OutputDir:   os.Getenv("COVERPDF_OUTPUT_DIR"),
		StudentName: os.Getenv("COVERPDF_STUDENT_NAME"),
		StudentID:   os.Getenv("COVERPDF_STUDENT_ID"),
		Batch:       os.Getenv("COVERPDF_BATCH"),
		Section:     os.Getenv("COVERPDF_SECTION"),
		Type:        os.Getenv("COVERPDF_TYPE"),
		Semester:    os.Getenv("COVERPDF_SEMESTER"),
		CourseCode:  os.Getenv("COVERPDF_COURSE_CODE"),
		CourseName:  os.Getenv("COVERPDF_COURSE_NAME"),
		Teacher:     os.Getenv("COVERPDF_TEACHER"),
		Designation: os.Getenv("COVERPDF_DESIGNATION"),
		Date:        os.Getenv("COVERPDF_DATE"),
		DateFormat:  os.Getenv("COVERPDF_DATE_FORMAT"),
	}
}

// warnUnknownEnvVars writes a warning for each unrecognized COVERPDF_*
// variable, e.g. COVERPDF_STUDENT instead of COVERPDF_STUDENT_NAME.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "COVERPDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig copies set environment values over the config file.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Templates.Source, env.Templates)
	set(&cfg.Output.Dir, env.OutputDir)

	set(&cfg.Student.Name, env.StudentName)
	set(&cfg.Student.ID, env.StudentID)
	set(&cfg.Student.Batch, env.Batch)
	set(&cfg.Student.Section, env.Section)

	set(&cfg.Document.Type, env.Type)
	set(&cfg.Document.Semester, env.Semester)
	set(&cfg.Document.Date, env.Date)
	set(&cfg.Document.DateFormat, env.DateFormat)
	set(&cfg.Course.Code, env.CourseCode)
	set(&cfg.Course.Name, env.CourseName)
	set(&cfg.Course.Teacher, env.Teacher)
	set(&cfg.Course.Designation, env.Designation)
}
