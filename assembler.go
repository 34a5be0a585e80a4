package coverpdf

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-coverpdf/internal/assets"
)

// Assembler builds the cover page and merges uploaded files behind it.
// An Assembler holds no per-run state; Assemble may be called concurrently.
type Assembler struct {
	templates TemplateSource
	logger    zerolog.Logger
	now       func() time.Time
	header    []HeaderLine
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithTemplateSource sets where cover templates are loaded from.
func WithTemplateSource(src TemplateSource) Option {
	return func(a *Assembler) {
		a.templates = src
	}
}

// WithoutTemplates always draws the cover on a blank A4 page.
func WithoutTemplates() Option {
	return func(a *Assembler) {
		a.templates = nil
	}
}

// WithLogger sets the logger used for skipped files and fallbacks.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// WithClock sets the time source for the default submission date and the
// document timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithHeader replaces the institution block drawn at the top of the cover.
func WithHeader(lines []HeaderLine) Option {
	return func(a *Assembler) {
		a.header = append([]HeaderLine(nil), lines...)
	}
}

// NewAssembler returns an Assembler using the built-in templates, a no-op
// logger and the wall clock.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		templates: assets.NewEmbeddedLoader(),
		logger:    zerolog.Nop(),
		now:       time.Now,
		header:    DefaultHeader,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileReport describes what one uploaded file contributed.
type FileReport struct {
	Index    int
	Name     string
	Media    MediaType
	Path     Path   // primary, fallback (PNG after JPEG failed) or failed
	Strategy string // decoder or loader that produced the pages
	Pages    int
	Err      error
}

// Result is the output of one assembly run.
type Result struct {
	PDF      []byte
	Pages    int
	Filename string
	Template Outcome
	Date     Outcome
	Files    []FileReport
}

// Skipped returns the reports of files that contributed no pages.
func (r *Result) Skipped() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.Path == PathFailed {
			out = append(out, f)
		}
	}
	return out
}

// Assemble produces one PDF: the cover page, then each file's pages in
// upload order. Images become one centred A4 page each; PDFs contribute all
// their pages. Files that cannot be decoded are skipped and reported.
//
// Returns ErrUnsupportedDocType, before any drawing, if fields.DocumentType
// has no layout, and an *EncodingError (ErrUnencodableText) if a field holds
// characters outside the cover font. Any other failure returns ErrAssembly
// and no bytes.
// ctx bounds the template fetch only; once started, the file loop runs to
// completion.
func (a *Assembler) Assemble(ctx context.Context, files []UploadedFile, fields FormFields) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: unexpected panic: %v", ErrAssembly, r)
		}
	}()

	layout, ok := LookupLayout(fields.DocumentType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDocType, fields.DocumentType)
	}

	if err := ValidateText(fields); err != nil {
		return nil, err
	}
	if err := validateHeader(a.header); err != nil {
		return nil, err
	}

	now := a.now()
	date, dateOutcome := ResolveSubmissionDate(fields.SubmissionDate, now)
	info := newCoverInfo(fields, date)

	cover, tplOutcome := firstOf(
		attempt("template", func() ([]byte, error) {
			tpl, err := loadTemplate(ctx, a.templates, layout.Type)
			if err != nil {
				return nil, err
			}
			return renderTemplateCover(tpl, layout, a.header, info, now)
		}),
		attempt("blank", func() ([]byte, error) {
			return renderBlankCover(layout, a.header, info, now)
		}),
	)
	if !tplOutcome.OK() {
		return nil, fmt.Errorf("%w: cover: %v", ErrAssembly, tplOutcome.Err)
	}
	if tplOutcome.Path == PathFallback {
		a.logger.Debug().Str("type", string(layout.Type)).Err(tplOutcome.Err).Msg("using blank cover page")
	}

	segs := []segment{{file: -1, pages: 1, data: cover}}
	reports := make([]FileReport, len(files))
	for i, f := range files {
		seg, rep := a.processFile(i, f, now)
		reports[i] = rep
		if rep.Path == PathFailed {
			a.logger.Warn().Str("file", f.Name).Err(rep.Err).Msg("skipping file")
			continue
		}
		segs = append(segs, seg)
	}

	merged, dropped, err := mergeSegments(segs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	for _, d := range dropped {
		rep := &reports[d.file]
		rep.Path, rep.Pages = PathFailed, 0
		rep.Err = fmt.Errorf("%w: %s could not be merged", ErrPDFLoad, rep.Name)
		a.logger.Warn().Str("file", rep.Name).Err(rep.Err).Msg("skipping file")
	}

	pages := 1
	for _, r := range reports {
		pages += r.Pages
	}

	a.logger.Info().
		Str("type", string(layout.Type)).
		Str("template", tplOutcome.Strategy).
		Int("files", len(files)).
		Int("pages", pages).
		Msg("document assembled")

	return &Result{
		PDF:      merged,
		Pages:    pages,
		Filename: fields.OutputFilename(),
		Template: tplOutcome,
		Date:     dateOutcome,
		Files:    reports,
	}, nil
}

// processFile turns one upload into a segment. Failures are reported, not
// returned.
func (a *Assembler) processFile(i int, f UploadedFile, now time.Time) (segment, FileReport) {
	rep := FileReport{Index: i, Name: f.Name, Media: f.Media, Path: PathFailed}
	if len(f.Content) == 0 {
		rep.Err = fmt.Errorf("%w: %s", ErrEmptyContent, f.Name)
		return segment{}, rep
	}

	switch f.Media {
	case MediaImage:
		img, out := decodeImage(f.Content)
		if !out.OK() {
			rep.Err = fmt.Errorf("%w: %s: %v", ErrImageDecode, f.Name, out.Err)
			return segment{}, rep
		}
		data, err := renderImagePage(f.Name, img, now)
		if err != nil {
			rep.Err = err
			return segment{}, rep
		}
		rep.Path, rep.Strategy, rep.Pages = out.Path, out.Strategy, 1
		return segment{file: i, pages: 1, data: data}, rep

	case MediaPDF:
		n, err := PageCount(f.Content)
		if err != nil {
			rep.Err = fmt.Errorf("%s: %w", f.Name, err)
			return segment{}, rep
		}
		rep.Path, rep.Strategy, rep.Pages = PathPrimary, "pdf", n
		return segment{file: i, pages: n, data: f.Content}, rep

	default:
		rep.Err = fmt.Errorf("%w: %s (%q)", ErrUnknownMedia, f.Name, f.Media)
		return segment{}, rep
	}
}
