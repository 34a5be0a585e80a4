// Package config loads YAML profiles that prefill the cover page form.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/dateutil"
	"github.com/alnah/go-coverpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrConfigExists    = errors.New("config file already exists")
)

// Field length limits. Values longer than these would overflow the cover
// page cells anyway.
const (
	MaxNameLength        = 100
	MaxIDLength          = 30
	MaxShortFieldLength  = 20 // batch, section, course code
	MaxSemesterLength    = 50
	MaxCourseNameLength  = 150
	MaxDesignationLength = 100
	MaxDateLength        = 30
	MaxFilenameLength    = 255
	MaxLocationLength    = 2048
)

// AppDir is the directory under os.UserConfigDir searched for profiles.
const AppDir = "go-coverpdf"

// Config is a generation profile.
type Config struct {
	Document  DocumentConfig  `yaml:"document"`
	Student   StudentConfig   `yaml:"student"`
	Course    CourseConfig    `yaml:"course"`
	Templates TemplatesConfig `yaml:"templates"`
	Output    OutputConfig    `yaml:"output"`
}

// DocumentConfig selects the cover page.
type DocumentConfig struct {
	Type     string `yaml:"type"` // "assignment" or "lab_report"
	Semester string `yaml:"semester"`
	Date     string `yaml:"date"` // "auto", DD/MM/YY or YYYY-MM-DD

	// DateFormat renders the date on the cover: tokens (DD, MM, YY, YYYY,
	// MMM, MMMM) or a preset (submission, iso, european, long).
	// Empty = DD/MM/YY.
	DateFormat string `yaml:"dateFormat"`
}

// StudentConfig holds the submitter identity.
type StudentConfig struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id"`
	Batch   string `yaml:"batch"`
	Section string `yaml:"section"`
}

// CourseConfig holds the course and teacher details.
type CourseConfig struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Teacher     string `yaml:"teacher"`
	Designation string `yaml:"designation"`
}

// TemplatesConfig points at cover templates.
type TemplatesConfig struct {
	Source string `yaml:"source"` // Empty = embedded; directory, http(s) URL or s3:// URL
}

// OutputConfig defines where the document is written.
type OutputConfig struct {
	Dir  string `yaml:"dir"`  // Empty = current directory
	Name string `yaml:"name"` // Empty = DIU.pdf
}

// Validate checks field lengths and the document type.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"document.semester", c.Document.Semester, MaxSemesterLength},
		{"document.date", c.Document.Date, MaxDateLength},
		{"document.dateFormat", c.Document.DateFormat, dateutil.MaxDateFormatLength},
		{"student.name", c.Student.Name, MaxNameLength},
		{"student.id", c.Student.ID, MaxIDLength},
		{"student.batch", c.Student.Batch, MaxShortFieldLength},
		{"student.section", c.Student.Section, MaxShortFieldLength},
		{"course.code", c.Course.Code, MaxShortFieldLength},
		{"course.name", c.Course.Name, MaxCourseNameLength},
		{"course.teacher", c.Course.Teacher, MaxNameLength},
		{"course.designation", c.Course.Designation, MaxDesignationLength},
		{"templates.source", c.Templates.Source, MaxLocationLength},
		{"output.dir", c.Output.Dir, MaxLocationLength},
		{"output.name", c.Output.Name, MaxFilenameLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Document.Type != "" && !coverpdf.IsSupported(coverpdf.ParseDocumentType(c.Document.Type)) {
		return fmt.Errorf("%w: document.type %q", ErrInvalidValue, c.Document.Type)
	}
	if c.Document.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.Document.DateFormat); err != nil {
			return fmt.Errorf("%w: document.dateFormat: %v", ErrInvalidValue, err)
		}
	}
	if c.Output.Name != "" && strings.ContainsAny(c.Output.Name, `/\`) {
		return fmt.Errorf("%w: output.name %q must be a file name, not a path", ErrInvalidValue, c.Output.Name)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// FormFields converts the profile to form defaults. The submission date is
// left as written; the caller converts it.
func (c *Config) FormFields() coverpdf.FormFields {
	f := coverpdf.FormFields{
		Semester:       c.Document.Semester,
		StudentName:    c.Student.Name,
		StudentID:      c.Student.ID,
		Batch:          c.Student.Batch,
		Section:        c.Student.Section,
		CourseCode:     c.Course.Code,
		CourseName:     c.Course.Name,
		TeacherName:    c.Course.Teacher,
		Designation:    c.Course.Designation,
		SubmissionDate: c.Document.Date,
		OutputName:     c.Output.Name,
	}
	if c.Document.Type != "" {
		f.DocumentType = coverpdf.ParseDocumentType(c.Document.Type)
	}
	return f
}

// DefaultConfig returns an empty profile: assignment cover, embedded
// templates, placeholders for every field.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{Type: "assignment"},
	}
}

// SampleConfig returns the profile written by "config init".
func SampleConfig() *Config {
	return &Config{
		Document: DocumentConfig{Type: "assignment", Semester: "Fall 2025", Date: "auto"},
		Student:  StudentConfig{Name: "Your Name", ID: "221-15-0000", Batch: "61", Section: "A"},
		Course:   CourseConfig{Code: "CSE101", Name: "Structured Programming", Teacher: "Course Teacher", Designation: "Lecturer"},
		Output:   OutputConfig{Name: coverpdf.DefaultOutputName},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's searched in the current directory, then in the user
// config directory. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig writes cfg as YAML to path. An existing file is only
// replaced when overwrite is set.
func WriteConfig(path string, cfg *Config, overwrite bool) error {
	if !overwrite && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// UserConfigPath returns the profile path for name in the user config
// directory.
func UserConfigPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDir, name+".yaml"), nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath tries name.yaml and name.yml in the current directory,
// then in the user config directory.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if userDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			p := filepath.Join(userDir, AppDir, name+ext)
			if fileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
