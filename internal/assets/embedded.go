package assets

import (
	"context"
	"embed"
	"fmt"
)

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads templates compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate reads templates/{name} from the embedded filesystem.
func (e *EmbeddedLoader) LoadTemplate(_ context.Context, name string) ([]byte, error) {
	if err := ValidateTemplateName(name); err != nil {
		return nil, err
	}
	content, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return content, nil
}

// Compile-time interface check.
var _ TemplateLoader = (*EmbeddedLoader)(nil)
