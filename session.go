package coverpdf

import (
	"fmt"
	"sync"
)

// Session is the ordered upload list for one user. Upload order is output
// order; Move and Reorder change it explicitly.
// A Session is safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	files []UploadedFile
}

// NewSession returns a session holding files in the given order.
// Files that are not images or PDFs are dropped.
func NewSession(files ...UploadedFile) *Session {
	s := &Session{}
	s.Add(files...)
	return s
}

// Add appends files in order. Files whose media type is neither image nor
// PDF are ignored; the counts let callers tell the user some were skipped.
func (s *Session) Add(files ...UploadedFile) (accepted, ignored int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range files {
		if f.Media != MediaImage && f.Media != MediaPDF {
			ignored++
			continue
		}
		s.files = append(s.files, f)
		accepted++
	}
	return accepted, ignored
}

// Remove deletes the file at index i.
func (s *Session) Remove(i int) (UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.files) {
		return UploadedFile{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(s.files))
	}
	f := s.files[i]
	s.files = append(s.files[:i], s.files[i+1:]...)
	return f, nil
}

// Move relocates the file at from so that it ends up at index to, shifting
// the files in between. This is what a drag-and-drop reorder does.
func (s *Session) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.files)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: from %d (have %d)", ErrIndexOutOfRange, from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: to %d (have %d)", ErrIndexOutOfRange, to, n)
	}
	if from == to {
		return nil
	}

	f := s.files[from]
	if from < to {
		copy(s.files[from:to], s.files[from+1:to+1])
	} else {
		copy(s.files[to+1:from+1], s.files[to:from])
	}
	s.files[to] = f
	return nil
}

// Reorder rearranges the files so that position k holds the file previously
// at order[k]. order must be a permutation of 0..Len()-1.
func (s *Session) Reorder(order []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.files)
	if len(order) != n {
		return fmt.Errorf("%w: got %d indexes for %d files", ErrInvalidOrder, len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return fmt.Errorf("%w: bad or repeated index %d", ErrInvalidOrder, idx)
		}
		seen[idx] = true
	}

	next := make([]UploadedFile, n)
	for k, idx := range order {
		next[k] = s.files[idx]
	}
	s.files = next
	return nil
}

// Files returns a copy of the ordered list. File contents are shared.
func (s *Session) Files() []UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UploadedFile(nil), s.files...)
}

// Len returns the number of files.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Clear empties the session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}
