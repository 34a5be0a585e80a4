package server

import (
	"context"

	"github.com/alnah/go-coverpdf"
)

// SessionStore keeps upload sessions between requests. Each session is an
// ordered file list; mutations go through Update so the store can apply
// them atomically.
type SessionStore interface {
	// Create starts an empty session and returns its ID.
	Create(ctx context.Context) (string, error)
	// Files returns the session's files in order.
	Files(ctx context.Context, id string) ([]coverpdf.UploadedFile, error)
	// Update loads the session, applies fn and saves the result unless fn
	// fails. It returns the files after the update.
	Update(ctx context.Context, id string, fn func(*coverpdf.Session) error) ([]coverpdf.UploadedFile, error)
	// Delete removes the session.
	Delete(ctx context.Context, id string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Name identifies the backend in health output.
	Name() string
	Close() error
}

// storedFile is the persisted form of an UploadedFile.
type storedFile struct {
	Name    string             `json:"name"`
	Media   coverpdf.MediaType `json:"media"`
	Content []byte             `json:"content"`
}

func toStored(files []coverpdf.UploadedFile) []storedFile {
	out := make([]storedFile, len(files))
	for i, f := range files {
		out[i] = storedFile(f)
	}
	return out
}

func fromStored(files []storedFile) []coverpdf.UploadedFile {
	out := make([]coverpdf.UploadedFile, len(files))
	for i, f := range files {
		out[i] = coverpdf.UploadedFile(f)
	}
	return out
}
