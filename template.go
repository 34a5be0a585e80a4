package coverpdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-coverpdf/internal/assets"
)

// TemplateSource loads cover template PDFs by resource name
// ("assignment.pdf", "lab_report.pdf").
// Implementations may read embedded files, a directory, an HTTP server or
// an object store bucket.
type TemplateSource interface {
	LoadTemplate(ctx context.Context, name string) ([]byte, error)
}

// Compile-time interface checks.
var (
	_ TemplateSource = (*assets.EmbeddedLoader)(nil)
	_ TemplateSource = (*assets.FilesystemLoader)(nil)
	_ TemplateSource = (*assets.HTTPLoader)(nil)
	_ TemplateSource = (*assets.ObjectStoreLoader)(nil)
	_ TemplateSource = (*assets.Resolver)(nil)
)

var errNoTemplateSource = errors.New("no template source configured")

// OpenTemplateSource resolves a location to a template source:
// "" uses the built-in templates, an http(s) URL reads from a web server,
// "s3://bucket/prefix" reads from an object store, anything else is a local
// directory. Custom sources fall back to the built-in templates when a name
// is missing.
func OpenTemplateSource(location string) (TemplateSource, error) {
	loader, err := assets.Open(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateSource, err)
	}
	return loader, nil
}

// loadTemplate fetches and validates the template for t.
func loadTemplate(ctx context.Context, src TemplateSource, t DocumentType) ([]byte, error) {
	if src == nil {
		return nil, errNoTemplateSource
	}
	b, err := src.LoadTemplate(ctx, string(t))
	if err != nil {
		return nil, err
	}
	if _, err := PageCount(b); err != nil {
		return nil, fmt.Errorf("template %s: %w", t, err)
	}
	return b, nil
}
