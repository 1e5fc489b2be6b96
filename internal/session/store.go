package session

import (
	"context"
	"errors"

	"lectern/internal/model"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Store is the session registry. Implementations must make Delete idempotent:
// deleting an unknown id is not an error.
type Store interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Put(ctx context.Context, sess *model.Session) error
	Delete(ctx context.Context, id string) error
}
