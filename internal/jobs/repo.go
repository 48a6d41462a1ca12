package jobs

import (
	"context"
	"errors"
)

var ErrInvalidInput = errors.New("invalid input")

// BoardRepo stores job marks. Adding an existing mark is a no-op.
type BoardRepo interface {
	Add(ctx context.Context, m Mark) error
	List(ctx context.Context, userID string, kind MarkKind) ([]Mark, error)
	Counts(ctx context.Context, userID string) (map[MarkKind]int, error)
}
