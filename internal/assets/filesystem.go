package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads templates from a directory on disk.
// Templates are looked up as {dir}/{name}.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader creates a FilesystemLoader for dir.
// Returns ErrInvalidBasePath if dir is not a readable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	// Containment checks compare resolved paths.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{dir: abs}, nil
}

// Dir returns the resolved template directory.
func (f *FilesystemLoader) Dir() string { return f.dir }

// LoadTemplate reads {dir}/{name}.
func (f *FilesystemLoader) LoadTemplate(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateTemplateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	p := filepath.Join(f.dir, name)
	if err := f.contains(p); err != nil {
		return nil, err
	}

	file, err := os.Open(p) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = file.Close() }()

	return readLimited(file, name)
}

// contains ensures p, after symlink resolution, stays inside dir.
func (f *FilesystemLoader) contains(p string) error {
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	// A missing file keeps its unresolved path; opening it fails later.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	if !strings.HasPrefix(abs, f.dir+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ TemplateLoader = (*FilesystemLoader)(nil)
