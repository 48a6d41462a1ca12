package resumes

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("resume already uploaded")
)

// ArchiveRepo stores upload records.
type ArchiveRepo interface {
	Create(ctx context.Context, u Upload) error
	GetByResume(ctx context.Context, userID string, resumeID int64) (Upload, error)
	ListByUser(ctx context.Context, userID string) ([]Upload, error)
}
