package jdi

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// DraftStore keeps one setup draft per session until it is saved.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (Draft, error)
	Put(ctx context.Context, sessionID string, d Draft) error
	// Create stores d only when the session has no draft yet.
	Create(ctx context.Context, sessionID string, d Draft) error
	// Update applies fn to the stored draft while holding it, so concurrent
	// edits of one session never overwrite each other. An error from fn
	// leaves the draft unchanged. A missing draft is ErrNotFound.
	Update(ctx context.Context, sessionID string, fn func(*Draft) error) (Draft, error)
	Delete(ctx context.Context, sessionID string) error
}
