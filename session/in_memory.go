// Package session provides session storage implementations.
package session

import (
	"fmt"
	"sync"

	"github.com/hupe1980/calagent/core"
)

// InMemoryStore keeps sessions in process memory. Transcripts do not survive a
// restart; suitable for the interactive shell and for tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Create adds a new session with the given ID. It is an error to create a
// session that already exists.
func (s *InMemoryStore) Create(id string) (*core.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("session %q already exists", id)
	}

	sess := core.NewSession(id)
	s.sessions[id] = sess

	return sess, nil
}

// Get returns the session with the given ID, lazily creating it when absent.
// Every chat turn addresses a session by ID; first use bootstraps it.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id must not be empty")
	}

	s.mu.RLock()
	sess, exists := s.sessions[id]
	s.mu.RUnlock()

	if exists {
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock.
	if sess, exists := s.sessions[id]; exists {
		return sess, nil
	}

	sess = core.NewSession(id)
	s.sessions[id] = sess

	return sess, nil
}

// AppendTurn appends a turn to the identified session's transcript.
func (s *InMemoryStore) AppendTurn(sessionID string, t core.Turn) error {
	sess, err := s.Get(sessionID)
	if err != nil {
		return err
	}

	sess.Append(t)

	return nil
}
