package session

import (
	"context"
	"sync"

	"lectern/internal/model"
)

// MemoryStore keeps sessions in process memory. State is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy so callers can mutate without racing other readers.
	out := *sess
	out.Documents = append([]model.DocumentRecord(nil), sess.Documents...)
	return &out, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sess
	stored.Documents = append([]model.DocumentRecord(nil), sess.Documents...)
	s.sessions[sess.ID] = &stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
