package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/config"
	"github.com/alnah/go-coverpdf/internal/dateutil"
)

// ErrAborted signals the user interrupted a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// Prompter asks the user for form values. Tests substitute a scripted
// implementation.
type Prompter interface {
	Input(ctx context.Context, message, def string, validate func(string) error) (string, error)
	Select(ctx context.Context, message string, options []string, def string) (string, error)
}

// surveyPrompter prompts on the terminal.
type surveyPrompter struct{}

func (surveyPrompter) Input(ctx context.Context, message, def string, validate func(string) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(&survey.Input{Message: message, Default: def}, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Select(ctx context.Context, message string, options []string, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := &survey.Select{Message: message, Options: options}
	for _, o := range options {
		if o == def {
			prompt.Default = def
		}
	}
	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// promptField is one question of the interactive form.
type promptField struct {
	message  string
	dst      *string
	validate func(string) error
}

// promptMissing asks for the document type, then for every form field
// still empty after config, environment and flags. today is offered as
// the default submission date.
func promptMissing(ctx context.Context, p Prompter, cfg *config.Config, today string) error {
	typ, err := p.Select(ctx, "Document type:", typeShortNames(), shortTypeName(cfg.Document.Type))
	if err != nil {
		return err
	}
	cfg.Document.Type = typ

	fields := []promptField{
		{message: "Semester:", dst: &cfg.Document.Semester},
		{message: "Student name:", dst: &cfg.Student.Name},
		{message: "Student ID:", dst: &cfg.Student.ID},
		{message: "Batch:", dst: &cfg.Student.Batch},
		{message: "Section:", dst: &cfg.Student.Section},
		{message: "Course code:", dst: &cfg.Course.Code},
		{message: "Course name:", dst: &cfg.Course.Name},
		{message: "Course teacher:", dst: &cfg.Course.Teacher},
		{message: "Designation:", dst: &cfg.Course.Designation},
		{message: "Submission date:", dst: &cfg.Document.Date, validate: validDate},
	}
	for _, f := range fields {
		if strings.TrimSpace(*f.dst) != "" {
			continue
		}
		def := ""
		if f.dst == &cfg.Document.Date {
			def = today
		}
		v, err := p.Input(ctx, f.message, def, f.validate)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(v)
	}
	return nil
}

func validDate(s string) error {
	_, err := dateutil.ToSubmission(s, time.Time{})
	return err
}

// typeShortNames returns the supported types without the .pdf suffix.
func typeShortNames() []string {
	types := coverpdf.SupportedTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = strings.TrimSuffix(string(t), ".pdf")
	}
	return out
}

// shortTypeName normalizes a configured type to its short name. Unknown
// values come back unchanged.
func shortTypeName(s string) string {
	return strings.TrimSuffix(string(coverpdf.ParseDocumentType(s)), ".pdf")
}
