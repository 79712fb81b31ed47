// Package session holds per-document viewing state: the flattened block
// collection, the current selection, and the conversation history for
// each discussed block. Nothing here persists beyond the session.
package session

import (
	"sync"
	"time"

	"github.com/blockview/blockview/internal/block"
	"github.com/blockview/blockview/internal/chat"
)

// Session is one viewable document. The block collection is immutable
// once set; selection and conversations are the only mutable state.
// Conversations are session-scoped by design, keyed by block id, so
// nothing leaks across documents or users.
type Session struct {
	ID          string
	Filename    string
	Title       string
	ContentHash string
	CreatedAt   time.Time

	Doc       *block.Document
	Selection Selection

	mu            sync.Mutex
	lastAccess    time.Time
	conversations map[string][]chat.Message
}

func New(id, filename, title, contentHash string, doc *block.Document) *Session {
	now := time.Now()
	return &Session{
		ID:            id,
		Filename:      filename,
		Title:         title,
		ContentHash:   contentHash,
		CreatedAt:     now,
		Doc:           doc,
		lastAccess:    now,
		conversations: make(map[string][]chat.Message),
	}
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

// History returns a copy of the conversation recorded for a block.
func (s *Session) History(blockID string) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.conversations[blockID]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append records conversation turns for a block.
func (s *Session) Append(blockID string, msgs ...chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[blockID] = append(s.conversations[blockID], msgs...)
	s.lastAccess = time.Now()
}

// Store is a thread-safe in-memory session registry with TTL eviction.
// Sessions expire on inactivity, not on age.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	s := st.sessions[id]
	st.mu.Unlock()
	if s != nil {
		s.Touch()
	}
	return s
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup removes sessions idle past the TTL.
func (st *Store) Cleanup() {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastAccess)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
		}
	}
}
