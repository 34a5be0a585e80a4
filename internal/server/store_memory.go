package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-coverpdf"
)

// MemoryStore keeps sessions in process memory. Idle sessions expire after
// the TTL and are removed by a background sweep.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	maxFiles int
	now      func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type memorySession struct {
	files   []coverpdf.UploadedFile
	expires time.Time
}

// NewMemoryStore creates a store and starts its sweep loop. Call Close to
// stop it.
func NewMemoryStore(ttl time.Duration, maxFiles int) *MemoryStore {
	s := newMemoryStore(ttl, maxFiles, time.Now)
	go s.sweepLoop(sweepInterval(ttl))
	return s
}

func newMemoryStore(ttl time.Duration, maxFiles int, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		maxFiles: maxFiles,
		now:      now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	iv := ttl / 4
	if iv < time.Second {
		iv = time.Second
	}
	return iv
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Create(context.Context) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &memorySession{expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Files(_ context.Context, id string) ([]coverpdf.UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]coverpdf.UploadedFile(nil), sess.files...), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*coverpdf.Session) error) ([]coverpdf.UploadedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	working := coverpdf.NewSession(sess.files...)
	if err := fn(working); err != nil {
		return nil, err
	}
	files := working.Files()
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, ErrSessionFull
	}
	sess.files = files
	sess.expires = s.now().Add(s.ttl)
	return append([]coverpdf.UploadedFile(nil), files...), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(id); err != nil {
		return err
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close stops the sweep loop. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookup must be called with mu held. Expired sessions are treated as
// missing and dropped.
func (s *MemoryStore) lookup(id string) (*memorySession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemoryStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.expires) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) sweepLoop(every time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}
