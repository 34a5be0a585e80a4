// Package assets loads cover template PDFs.
//
// # Loader Architecture
//
//	TemplateLoader (interface)
//	    │
//	    ├── EmbeddedLoader     - templates compiled into the binary (go:embed)
//	    ├── FilesystemLoader   - templates from a local directory
//	    ├── HTTPLoader         - templates from {baseURL}/{name}
//	    ├── ObjectStoreLoader  - templates from an S3-compatible bucket (MinIO)
//	    └── Resolver           - custom loader first, embedded on not-found
//
// Open turns a location string into the right loader wrapped in a Resolver.
//
// # Names
//
// Template names are the document type resource names, such as
// "assignment.pdf" and "lab_report.pdf". Names are validated before any
// lookup; path separators and traversal sequences are rejected.
//
// # Security
//
// FilesystemLoader resolves symlinks and verifies paths stay within its base
// directory. Remote loaders cap the response size at MaxTemplateSize.
package assets
