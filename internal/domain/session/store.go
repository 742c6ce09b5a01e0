package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pverbeek/ganttvoice/internal/domain/activity"
)

// Store guards the single active session. The design serves one session at a
// time; concurrent uploads race with last-writer-wins semantics, but the lock
// keeps reads and workbook mutations internally consistent.
type Store struct {
	mu      sync.RWMutex
	current *Session
	logger  *slog.Logger
}

// NewStore creates an empty session store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Replace installs a new session for an uploaded workbook, discarding any
// prior one. The previous temp file is left for OS temp cleanup.
func (s *Store) Replace(filename, workbookPath string, activities []activity.Record, totalRows int) *Session {
	sess := &Session{
		ID:           uuid.NewString(),
		Filename:     filename,
		WorkbookPath: workbookPath,
		Activities:   activities,
		TotalRows:    totalRows,
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.Info("session replaced", "session_id", sess.ID, "filename", filename, "activities", len(activities))
	return sess
}

// Current returns the active session, if any.
func (s *Store) Current() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// Activities returns a copy of the current activity list, or an empty slice
// when no workbook has been uploaded. The analyzer tolerates an empty list.
func (s *Store) Activities() []activity.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := make([]activity.Record, len(s.current.Activities))
	copy(out, s.current.Activities)
	return out
}

// WithWorkbook runs fn against the current workbook path while holding the
// store lock, so a patch cannot interleave with an upload replacing the slot.
func (s *Store) WithWorkbook(fn func(path string) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoWorkbook
	}
	return fn(s.current.WorkbookPath)
}
