package wizard

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("wizard state not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repo stores one State per session. Put replaces the stored state.
type Repo interface {
	Get(ctx context.Context, sessionID string) (State, error)
	Put(ctx context.Context, st State) error
}
