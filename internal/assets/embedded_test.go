package assets

import (
	"context"
	"errors"
	"testing"
)

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("no built-in template is not found", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplate(context.Background(), "assignment.pdf")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("LoadTemplate() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("readme is not a template", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplate(context.Background(), "README.md")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadTemplate(context.Background(), "../embedded.go")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadTemplate() error = %v, want ErrInvalidAssetName", err)
		}
	})
}
