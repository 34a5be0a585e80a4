package main

import (
	"errors"
	"os"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/config"
	"github.com/alnah/go-coverpdf/internal/dateutil"
	"github.com/alnah/go-coverpdf/internal/fileutil"
)

// Exit codes for the coverpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrFileTooLarge) ||
		errors.Is(err, fileutil.ErrNotRegularFile) ||
		errors.Is(err, fileutil.ErrEmptyPath) ||
		errors.Is(err, ErrReadUpload) ||
		errors.Is(err, ErrWritePDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrConfigExists) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, coverpdf.ErrUnsupportedDocType) ||
		errors.Is(err, coverpdf.ErrUnencodableText) ||
		errors.Is(err, coverpdf.ErrInvalidTemplateSource) ||
		errors.Is(err, dateutil.ErrInvalidDate) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
