package assets

import "errors"

// Sentinel errors for template loading.
var (
	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName indicates the template name contains path
	// separators, traversal sequences, or lacks the .pdf extension.
	ErrInvalidAssetName = errors.New("invalid template name")

	// ErrInvalidBasePath indicates the configured directory is not usable.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrInvalidLocation indicates a template location string cannot be parsed.
	ErrInvalidLocation = errors.New("invalid template location")

	// ErrAssetRead indicates an I/O or transport error while reading a template.
	ErrAssetRead = errors.New("failed to read template")

	// ErrTemplateTooLarge indicates the template exceeds MaxTemplateSize.
	ErrTemplateTooLarge = errors.New("template too large")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
