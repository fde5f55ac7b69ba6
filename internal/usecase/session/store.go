package session

import (
	"sync"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
)

// Entry is one active session plus its processing machinery. The entry mutex
// guards the session record and lifecycle flags; the queue feeds the single
// worker goroutine that keeps per-session processing strictly serial.
type Entry struct {
	mu      sync.Mutex
	session *entities.MeetingSession
	config  MeetingConfig
	queue   chan entities.AudioChunk
	drained chan struct{}
	ending  bool
	seen    map[uint64]struct{}
	done    func()
}

// WithLock runs fn while holding the entry mutex
func (e *Entry) WithLock(fn func(s *entities.MeetingSession)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// finish signals that the worker has drained the queue and exited
func (e *Entry) finish() {
	close(e.drained)
	if e.done != nil {
		e.done()
	}
}

// SessionStore holds the active session table. Implementations must allow
// fully parallel access across different sessions.
type SessionStore interface {
	// Init prepares the store before first use
	Init() error
	// Register adds a new active session and allocates its chunk queue
	Register(s *entities.MeetingSession, cfg MeetingConfig, queueSize int) (*Entry, error)
	// Get returns the entry for an active session
	Get(sessionID string) (*Entry, bool)
	// Remove deletes a session from the active table
	Remove(sessionID string)
	// List returns the ids of all active sessions
	List() []string
	// Teardown blocks until every registered worker has drained
	Teardown()
}

// MemoryStore is the in-process active session table
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	wg      sync.WaitGroup
}

// NewMemoryStore creates an empty session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init prepares the active table
func (m *MemoryStore) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*Entry)
	return nil
}

// Register adds a session to the active table
func (m *MemoryStore) Register(s *entities.MeetingSession, cfg MeetingConfig, queueSize int) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries == nil {
		m.entries = make(map[string]*Entry)
	}
	if _, exists := m.entries[s.ID]; exists {
		return nil, apperrors.ErrInternal(nil).WithDetail("reason", "session already registered")
	}
	e := &Entry{
		session: s,
		config:  cfg,
		queue:   make(chan entities.AudioChunk, queueSize),
		drained: make(chan struct{}),
		seen:    make(map[uint64]struct{}),
		done:    m.wg.Done,
	}
	m.entries[s.ID] = e
	m.wg.Add(1)
	return e, nil
}

// Get returns the entry for an active session
func (m *MemoryStore) Get(sessionID string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[sessionID]
	return e, ok
}

// Remove deletes a session from the active table
func (m *MemoryStore) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
}

// List returns the ids of all active sessions
func (m *MemoryStore) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids
}

// Teardown waits for all session workers to finish
func (m *MemoryStore) Teardown() {
	m.wg.Wait()
}
