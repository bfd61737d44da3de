package repository

import (
	"fmt"
	"sync"

	"github.com/futig/rag-playground/internal/entity"
)

// DocumentMemory is the session document store: sessionID -> fileID -> Document.
// Contents live only as long as the process.
type DocumentMemory struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*entity.Document
}

func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{
		sessions: make(map[string]map[string]*entity.Document),
	}
}

// Put stores doc under (sessionID, fileID), replacing any previous document
// with the same file id.
func (s *DocumentMemory) Put(sessionID, fileID string, doc *entity.Document) error {
	if sessionID == "" || fileID == "" {
		return fmt.Errorf("%w: empty session or file id", entity.ErrStorage)
	}
	if doc == nil {
		return fmt.Errorf("%w: nil document", entity.ErrStorage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.sessions[sessionID]
	if !ok {
		docs = make(map[string]*entity.Document)
		s.sessions[sessionID] = docs
	}
	docs[fileID] = doc

	return nil
}

// Get returns a copy of the session's file map. Documents are shared and
// must be treated as read-only. A missing session yields nil.
func (s *DocumentMemory) Get(sessionID string) map[string]*entity.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	snapshot := make(map[string]*entity.Document, len(docs))
	for id, doc := range docs {
		snapshot[id] = doc
	}
	return snapshot
}

// Delete removes the session and returns how many documents it held.
func (s *DocumentMemory) Delete(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions[sessionID])
	delete(s.sessions, sessionID)
	return n
}

func (s *DocumentMemory) Has(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[sessionID]
	return ok
}

// Sessions lists the ids of sessions holding at least one document.
func (s *DocumentMemory) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
