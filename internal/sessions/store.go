// Package sessions provides a bounded in-memory store for conversational
// voice-lead sessions. Capacity is fixed: when a new session would exceed it,
// the oldest session is evicted in the same critical section that inserts the
// new one, so the bound holds under any interleaving.
package sessions

import (
	"container/list"
	"sync"
	"time"

	"retainly_backend/internal/scoring"
	"retainly_backend/platform/apperr"
)

// Message is one turn in a session's conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the state of one lead conversation. Callers must hold the
// session's own mutex while reading or mutating its fields; the store lock
// only protects membership and ordering.
type Session struct {
	ID                    string
	CreatedAt             time.Time
	Messages              []Message
	Signals               scoring.LeadSignals
	Score                 scoring.Result
	QualificationComplete bool

	mu sync.Mutex
}

// Lock acquires the per-session mutex.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store is a fixed-capacity FIFO session store. Eviction order is creation
// order, not recency of use.
type Store struct {
	mu       sync.Mutex
	capacity int
	order    *list.List               // oldest at front, holds session IDs
	sessions map[string]*list.Element // id -> element whose Value is *entry
}

type entry struct {
	id      string
	session *Session
}

// NewStore creates a store holding at most capacity sessions.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity: capacity,
		order:    list.New(),
		sessions: make(map[string]*list.Element),
	}
}

// GetOrCreate returns the session for id, creating it when absent. When
// creation would exceed capacity the oldest session is evicted atomically
// with the insert. The second return reports whether the session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.sessions[id]; ok {
		return elem.Value.(*entry).session, false
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.sessions, oldest.Value.(*entry).id)
	}

	session := &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Signals:   scoring.LeadSignals{SessionID: id},
	}
	s.sessions[id] = s.order.PushBack(&entry{id: id, session: session})
	return session, true
}

// Get returns the session for id or a NotFound error.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[id]
	if !ok {
		return nil, apperr.NotFound("session not found")
	}
	return elem.Value.(*entry).session, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
