package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"lectern/internal/model"
	"lectern/internal/platform/pinecone"
	"lectern/internal/session"
)

// SessionService exposes the session registry's read and delete operations.
type SessionService struct {
	store   session.Store
	vectors *pinecone.Client
}

func NewSessionService(store session.Store, vectors *pinecone.Client) *SessionService {
	return &SessionService{store: store, vectors: vectors}
}

// Documents lists the session's ingested document records.
func (s *SessionService) Documents(ctx context.Context, sessionID string) ([]model.DocumentRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess.Documents, nil
}

// Delete removes the session from the registry and purges its vector
// namespace. Deleting an unknown session succeeds: the operation is
// idempotent.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidInput
	}

	// Best effort: a failed purge must not block registry deletion, the
	// namespace is unreachable once the session entry is gone.
	if err := s.vectors.DeleteNamespace(ctx, sessionID); err != nil {
		log.Printf("purge vector namespace %s failed: %v", sessionID, err)
	}

	return s.store.Delete(ctx, sessionID)
}
