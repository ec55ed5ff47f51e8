package statemachine

import (
	"context"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/sjperalta/lendtrack-api/internal/storage"
	"github.com/sjperalta/lendtrack-api/pkg/logger"
)

// Backend selector states
const (
	StateDatabaseActive = "database_active"
	StateFileActive     = "file_active"
)

const eventFailover = "failover"

// BackendSelector decides which storage backend serves each operation. It
// starts on the database when one is configured and falls back to the file
// store on the first connection failure. The transition is one-way: once on
// the file store, the process stays there for its whole lifetime.
type BackendSelector struct {
	mu   sync.Mutex
	fsm  *fsm.FSM
	db   storage.BorrowerStore
	file storage.BorrowerStore

	failedAt  *time.Time
	lastCause error
}

// NewBackendSelector builds a selector over the two backends. db may be nil
// (no database configured), in which case the selector starts file-active.
func NewBackendSelector(db, file storage.BorrowerStore) *BackendSelector {
	initial := StateFileActive
	if db != nil {
		initial = StateDatabaseActive
	}

	return &BackendSelector{
		db:   db,
		file: file,
		fsm: fsm.NewFSM(
			initial,
			fsm.Events{
				{Name: eventFailover, Src: []string{StateDatabaseActive}, Dst: StateFileActive},
			},
			fsm.Callbacks{},
		),
	}
}

// Active resolves the backend every operation should use right now
func (s *BackendSelector) Active() storage.BorrowerStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fsm.Current() == StateDatabaseActive {
		return s.db
	}
	return s.file
}

// Fallback records a database failure, transitions to the file store and
// returns it so the caller can retry. Calling it after failover already
// happened is a no-op that still returns the file store.
func (s *BackendSelector) Fallback(ctx context.Context, cause error) storage.BorrowerStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fsm.Current() == StateFileActive {
		return s.file
	}

	if err := s.fsm.Event(ctx, eventFailover); err != nil {
		logger.Error("Backend failover transition failed", "error", err)
		return s.file
	}

	now := time.Now()
	s.failedAt = &now
	s.lastCause = cause
	logger.Warn("Database backend unavailable, switched to file store for the rest of the process lifetime", "cause", cause)
	return s.file
}

// State returns the current selector state
func (s *BackendSelector) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.Current()
}

// UsingDatabase reports whether the database backend is still active
func (s *BackendSelector) UsingDatabase() bool {
	return s.State() == StateDatabaseActive
}

// FailedAt returns when failover happened, or nil if it never did
func (s *BackendSelector) FailedAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failedAt
}
