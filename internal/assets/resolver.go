package assets

import (
	"context"
	"errors"
	"strings"
)

// Resolver tries a custom loader first and falls back to the embedded
// templates when the custom source does not have the name.
type Resolver struct {
	custom   TemplateLoader // nil when only embedded templates are used
	embedded TemplateLoader
}

// NewResolver wraps custom with an embedded fallback. custom may be nil.
func NewResolver(custom TemplateLoader) *Resolver {
	return &Resolver{custom: custom, embedded: NewEmbeddedLoader()}
}

// HasCustomLoader reports whether a custom loader is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// LoadTemplate loads name from the custom loader, or from the embedded
// templates if the custom loader reports ErrTemplateNotFound. Validation and
// I/O errors are returned without fallback.
func (r *Resolver) LoadTemplate(ctx context.Context, name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.LoadTemplate(ctx, name)
	}
	b, err := r.custom.LoadTemplate(ctx, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrTemplateNotFound) {
		return nil, err
	}
	return r.embedded.LoadTemplate(ctx, name)
}

// Open resolves a location to a loader:
//
//	""                      embedded templates
//	http://... https://...  HTTPLoader
//	s3://...                ObjectStoreLoader
//	anything else           FilesystemLoader on that directory
//
// Non-empty locations are wrapped in a Resolver.
func Open(location string) (TemplateLoader, error) {
	location = strings.TrimSpace(location)
	var (
		custom TemplateLoader
		err    error
	)
	switch {
	case location == "":
		return NewResolver(nil), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		custom, err = NewHTTPLoader(location, nil)
	case strings.HasPrefix(location, "s3://"):
		var cfg ObjectStoreConfig
		if cfg, err = ParseObjectStoreURL(location); err == nil {
			custom, err = NewObjectStoreLoader(cfg)
		}
	default:
		custom, err = NewFilesystemLoader(location)
	}
	if err != nil {
		return nil, err
	}
	return NewResolver(custom), nil
}

// Compile-time interface check.
var _ TemplateLoader = (*Resolver)(nil)
