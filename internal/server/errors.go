package server

import "errors"

// Sentinel errors for session storage.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFull     = errors.New("session holds the maximum number of files")
)

// ErrCode is a typed error code for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidIndex   ErrCode = "INVALID_INDEX"
	ErrInvalidOrder   ErrCode = "INVALID_ORDER"

	// ─── Documents ─────────────────────────────────────────────────────
	ErrUnsupportedDocumentType ErrCode = "UNSUPPORTED_DOCUMENT_TYPE"
	ErrUnencodableText         ErrCode = "UNENCODABLE_TEXT"
	ErrGenerationFailed        ErrCode = "GENERATION_FAILED"

	// ─── Uploads ───────────────────────────────────────────────────────
	ErrFileTooLarge   ErrCode = "FILE_TOO_LARGE"
	ErrTooManyFiles   ErrCode = "TOO_MANY_FILES"
	ErrSessionMissing ErrCode = "SESSION_NOT_FOUND"

	// ─── Server ────────────────────────────────────────────────────────
	ErrNotFound    ErrCode = "NOT_FOUND"
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
	ErrInternal    ErrCode = "INTERNAL_ERROR"
)

// Message returns a human-readable message for a given error code.
func Message(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Check the submitted fields."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidIndex:
		return "File index is out of range."
	case ErrInvalidOrder:
		return "Order must list every file index exactly once."
	case ErrUnsupportedDocumentType:
		return "Unsupported document type."
	case ErrUnencodableText:
		return "Some text cannot be printed on the cover. Use Latin characters."
	case ErrGenerationFailed:
		return "The document could not be generated."
	case ErrFileTooLarge:
		return "Upload exceeds the size limit."
	case ErrTooManyFiles:
		return "Too many files in this session."
	case ErrSessionMissing:
		return "Session not found or expired."
	case ErrNotFound:
		return "Resource not found."
	case ErrUnavailable:
		return "Service temporarily unavailable."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
