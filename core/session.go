package core

import (
	"sync"
	"time"
)

// Turn is a single persisted entry in a session transcript: one content plus
// correlation metadata. After being appended it should be treated as immutable.
type Turn struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Content   Content   `json:"content"`
}

// NewTurn wraps a content into a timestamped transcript turn.
func NewTurn(content Content) Turn {
	return Turn{ID: NewID(), Timestamp: time.Now().UTC(), Content: content}
}

// Session represents a conversational container tracking an ordered transcript.
// It is safe for concurrent access.
//
// Contract:
//   - Append updates the Updated timestamp
//   - Turns returns a defensive copy to avoid external mutation
//   - History filters turns to the user/assistant/tool roles suitable for
//     providing conversational context to models
//   - Clone performs deep copies for safe divergence.
type Session struct {
	ID      string    `json:"id"`
	Turns   []Turn    `json:"turns"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates a new empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, Turns: []Turn{}, Created: now, Updated: now}
}

// Append adds a turn to the transcript updating the Updated timestamp.
func (s *Session) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Turns = append(s.Turns, t)
	s.Updated = time.Now()
}

// GetTurns returns a defensive copy of the full transcript.
func (s *Session) GetTurns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// History returns the contents usable as model context (user, assistant and
// tool roles) in transcript order.
func (s *Session) History() []Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	allowed := map[string]bool{"user": true, "assistant": true, "tool": true}
	res := make([]Content, 0, len(s.Turns))
	for _, t := range s.Turns {
		if !allowed[t.Content.Role] {
			continue
		}
		res = append(res, t.Content)
	}
	return res
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Turns: make([]Turn, len(s.Turns)), Created: s.Created, Updated: s.Updated}
	copy(clone.Turns, s.Turns)
	return clone
}

// SessionStore persists sessions and their evolving transcript.
type SessionStore interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	AppendTurn(sessionID string, t Turn) error
}
