package assets

import (
	"context"
	"fmt"
	"io"
)

// MaxTemplateSize caps the size of a template read from any source.
const MaxTemplateSize = 10 << 20

// TemplateLoader loads a cover template PDF by name.
// Implementations return ErrTemplateNotFound when the name does not exist
// and ErrInvalidAssetName when the name is rejected.
type TemplateLoader interface {
	LoadTemplate(ctx context.Context, name string) ([]byte, error)
}

// readLimited reads r up to MaxTemplateSize bytes.
func readLimited(r io.Reader, name string) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxTemplateSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrAssetRead, name, err)
	}
	if len(b) > MaxTemplateSize {
		return nil, fmt.Errorf("%w: %q exceeds %d bytes", ErrTemplateTooLarge, name, MaxTemplateSize)
	}
	return b, nil
}
