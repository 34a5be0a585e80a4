package coverpdf

import "errors"

// Sentinel errors for library operations.
var (
	// ErrUnsupportedDocType aborts a run before anything is drawn.
	ErrUnsupportedDocType = errors.New("cover not available for this document type")
	ErrAssembly           = errors.New("PDF generation failed")

	// ErrUnencodableText aborts a run before anything is drawn when a field
	// holds characters the cover font cannot print.
	ErrUnencodableText = errors.New("text cannot be printed with the cover font")

	// ErrInvalidTemplateSource is returned when a template location cannot be opened.
	ErrInvalidTemplateSource = errors.New("invalid template source")

	// Per-file failures. These are reported in FileReport.Err and never
	// returned from Assemble.
	ErrImageDecode    = errors.New("image is neither JPEG nor PNG")
	ErrImageEmbed     = errors.New("failed to embed image")
	ErrPDFLoad        = errors.New("failed to load PDF")
	ErrEmptyDocument  = errors.New("PDF has no pages")
	ErrEmptyContent   = errors.New("file content is empty")
	ErrUnknownMedia   = errors.New("unknown media type")
	ErrTemplateImport = errors.New("failed to import template page")

	// Session errors.
	ErrUnsupportedMedia = errors.New("only images and PDF files are supported")
	ErrIndexOutOfRange  = errors.New("file index out of range")
	ErrInvalidOrder     = errors.New("order must be a permutation of file indexes")
)
