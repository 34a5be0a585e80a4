// Package fileutil provides upload sniffing and file helpers shared by the
// CLI and the HTTP service.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alnah/go-coverpdf"
)

// MaxUploadSize bounds a single file read from disk (50 MiB).
const MaxUploadSize = 50 << 20

// Sentinel errors for file utility operations.
var (
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrEmptyPath      = errors.New("path cannot be empty")
)

// DetectMedia sniffs content and returns its media type together with the
// detected MIME string. The declared type is derived from the content, not
// the file extension.
func DetectMedia(content []byte) (coverpdf.MediaType, string) {
	mime := mimetype.Detect(content)
	return coverpdf.MediaTypeFromMIME(mime.String()), mime.String()
}

// ReadUpload reads path into an UploadedFile named after its base name.
// Files of unknown media are still returned; the session filters them.
func ReadUpload(path string) (coverpdf.UploadedFile, error) {
	if path == "" {
		return coverpdf.UploadedFile{}, ErrEmptyPath
	}
	f, err := os.Open(path) // #nosec G304 -- upload path is user-provided
	if err != nil {
		return coverpdf.UploadedFile{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return coverpdf.UploadedFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return coverpdf.UploadedFile{}, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	content, err := ReadLimited(f, MaxUploadSize)
	if err != nil {
		return coverpdf.UploadedFile{}, fmt.Errorf("%s: %w", path, err)
	}
	media, _ := DetectMedia(content)
	return coverpdf.UploadedFile{Name: filepath.Base(path), Media: media, Content: content}, nil
}

// ReadLimited reads r fully, failing with ErrFileTooLarge past limit bytes.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrFileTooLarge, limit)
	}
	return data, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partial document.
func WriteFileAtomic(path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".coverpdf-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- output documents are meant to be shared
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "cse" -> false (profile name)
//   - "./cse.yaml" -> true (relative path)
//   - "/etc/coverpdf/cse.yaml" -> true (absolute)
//   - "C:\profiles\cse.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// EnsurePDFExtension appends ".pdf" to name unless it already ends with it.
func EnsurePDFExtension(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}
