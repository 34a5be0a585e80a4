package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/config"
	"github.com/alnah/go-coverpdf/internal/dateutil"
	"github.com/alnah/go-coverpdf/internal/fileutil"
	"github.com/alnah/go-coverpdf/internal/hints"
	"github.com/alnah/go-coverpdf/internal/logger"
)

// Sentinel errors for generate.
var (
	ErrReadUpload = errors.New("failed to read input file")
	ErrWritePDF   = errors.New("failed to write PDF file")
)

// dirPermissions is used for output directories created on demand.
const dirPermissions = 0o750 // rwxr-x---

// runGenerate builds one document from the files in args, in the order
// given.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	log := logger.CLI(env.Stderr, flags.common.verbose, flags.common.quiet)

	envCfg := loadEnvConfig()
	cfg, err := loadProfile(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if flags.interactive {
		if env.Prompter == nil {
			return fmt.Errorf("%w: --interactive needs a terminal", ErrInvalidArgs)
		}
		if err := promptMissing(ctx, env.Prompter, cfg, dateutil.Today(env.Now())); err != nil {
			return err
		}
	}
	fields, err := resolveFields(cfg, env)
	if err != nil {
		return err
	}

	uploads, err := readUploads(inputs)
	if err != nil {
		return err
	}
	session := coverpdf.NewSession()
	if _, ignored := session.Add(uploads...); ignored > 0 && !flags.common.quiet {
		printIgnored(env.Stderr, uploads, ignored)
	}

	asm, err := buildAssembler(cfg.Templates.Source, flags.templates.disabled, log, env)
	if err != nil {
		return err
	}

	res, err := asm.Assemble(ctx, session.Files(), fields)
	if err != nil {
		return err
	}
	logOutcomes(log, res)

	outPath := resolveOutputPath(flags.output, cfg.Output.Dir, res.Filename)
	if err := writePDF(outPath, res.PDF); err != nil {
		return err
	}

	if !flags.common.quiet {
		printSummary(env.Stdout, env.Stderr, outPath, res)
	}
	return nil
}

// loadProfile loads the named profile, from --config or COVERPDF_CONFIG.
// Without either, an empty config is returned so the environment can fill
// every field.
func loadProfile(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, withHint(fmt.Errorf("loading config: %w", err), hints.ForConfigNotFound(searchedPaths(err)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// searchedPaths extracts the candidates listed in a not-found error.
func searchedPaths(err error) []string {
	msg := err.Error()
	i := strings.Index(msg, "tried ")
	if i < 0 {
		return nil
	}
	return strings.Split(msg[i+len("tried "):], ", ")
}

// mergeFlags copies explicitly set flags over config values (CLI wins).
func mergeFlags(flags *generateFlags, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	f := flags.form
	set(&cfg.Document.Type, f.docType)
	set(&cfg.Document.Semester, f.semester)
	set(&cfg.Document.Date, f.date)
	set(&cfg.Document.DateFormat, f.dateFormat)
	set(&cfg.Student.Name, f.studentName)
	set(&cfg.Student.ID, f.studentID)
	set(&cfg.Student.Batch, f.batch)
	set(&cfg.Student.Section, f.section)
	set(&cfg.Course.Code, f.courseCode)
	set(&cfg.Course.Name, f.courseName)
	set(&cfg.Course.Teacher, f.teacher)
	set(&cfg.Course.Designation, f.designation)
	set(&cfg.Templates.Source, flags.templates.source)
}

// resolveFields validates cfg and converts it to form fields, filling
// gaps from the default profile. The submission date is rendered with
// document.dateFormat (DD/MM/YY when unset).
func resolveFields(cfg *config.Config, env *Environment) (coverpdf.FormFields, error) {
	fields := cfg.FormFields().Merge(config.DefaultConfig().FormFields())
	if !coverpdf.IsSupported(fields.DocumentType) {
		err := fmt.Errorf("%w: %q", coverpdf.ErrUnsupportedDocType, cfg.Document.Type)
		return coverpdf.FormFields{}, withHint(err, hints.ForUnsupportedType(typeShortNames()))
	}
	if err := cfg.Validate(); err != nil {
		return coverpdf.FormFields{}, fmt.Errorf("invalid options: %w", err)
	}

	value := cfg.Document.Date
	if strings.TrimSpace(value) == "" && cfg.Document.DateFormat != "" {
		value = "today"
	}
	date, err := dateutil.Render(value, env.Now(), cfg.Document.DateFormat)
	if err != nil {
		return coverpdf.FormFields{}, err
	}
	fields.SubmissionDate = date

	if err := coverpdf.ValidateText(fields); err != nil {
		return coverpdf.FormFields{}, withHint(err, hints.ForUnencodableText())
	}
	return fields, nil
}

// readUploads reads every input in order. A missing or unreadable input
// aborts the run; content the assembler cannot decode does not.
func readUploads(paths []string) ([]coverpdf.UploadedFile, error) {
	files := make([]coverpdf.UploadedFile, 0, len(paths))
	for _, p := range paths {
		f, err := fileutil.ReadUpload(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadUpload, err)
		}
		files = append(files, f)
	}
	return files, nil
}

// buildAssembler wires the template source, logger and clock.
func buildAssembler(location string, noTemplates bool, log zerolog.Logger, env *Environment) (*coverpdf.Assembler, error) {
	opts := []coverpdf.Option{
		coverpdf.WithLogger(log),
		coverpdf.WithClock(env.Now),
	}
	if noTemplates {
		opts = append(opts, coverpdf.WithoutTemplates())
		return coverpdf.NewAssembler(opts...), nil
	}

	src, err := coverpdf.OpenTemplateSource(location)
	if err != nil {
		return nil, withHint(err, hints.ForTemplateSource(location))
	}
	opts = append(opts, coverpdf.WithTemplateSource(src))
	return coverpdf.NewAssembler(opts...), nil
}

// logOutcomes reports fallbacks at debug level; skipped files are already
// logged as warnings by the assembler.
func logOutcomes(log zerolog.Logger, res *coverpdf.Result) {
	log.Debug().
		Str("path", string(res.Template.Path)).
		Str("strategy", res.Template.Strategy).
		AnErr("cause", res.Template.Err).
		Msg("cover template")
	log.Debug().
		Str("path", string(res.Date.Path)).
		Str("strategy", res.Date.Strategy).
		Msg("submission date")
	for _, f := range res.Files {
		if f.Path == coverpdf.PathFailed {
			continue
		}
		log.Debug().
			Int("index", f.Index).
			Str("file", f.Name).
			Str("strategy", f.Strategy).
			Int("pages", f.Pages).
			Msg("file added")
	}
}

// resolveOutputPath decides where the document is written:
//   - -o naming a directory (existing, or ending in a separator): dir/filename
//   - -o naming a file: that file, with .pdf added if missing
//   - no -o: filename inside the configured output directory
func resolveOutputPath(output, configDir, filename string) string {
	if output == "" {
		if configDir == "" {
			return filename
		}
		return filepath.Join(configDir, filename)
	}
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)) {
		return filepath.Join(output, filename)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, filename)
	}
	return fileutil.EnsurePDFExtension(output)
}

// writePDF creates the parent directory if needed and writes data
// atomically.
func writePDF(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return withHint(fmt.Errorf("%w: %w", ErrWritePDF, err), hints.ForOutputDirectory())
		}
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePDF, err)
	}
	return nil
}

// printIgnored lists inputs that are neither images nor PDFs.
func printIgnored(w io.Writer, uploads []coverpdf.UploadedFile, n int) {
	var names []string
	for _, f := range uploads {
		if f.Media != coverpdf.MediaImage && f.Media != coverpdf.MediaPDF {
			names = append(names, f.Name)
		}
	}
	fmt.Fprintf(w, "notice: some files were ignored (%d): %s%s\n", n, strings.Join(names, ", "), hints.ForIgnoredFiles(n))
}

// printSummary reports the written file on stdout and skipped files on
// stderr.
func printSummary(stdout, stderr io.Writer, path string, res *coverpdf.Result) {
	for _, f := range res.Skipped() {
		fmt.Fprintf(stderr, "skipped %s: %v\n", f.Name, f.Err)
	}
	cover := "template"
	if res.Template.Path != coverpdf.PathPrimary {
		cover = "blank page"
	}
	fmt.Fprintf(stdout, "Wrote %s (%d pages, cover on %s)\n", path, res.Pages, cover)
}
