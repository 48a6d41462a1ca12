package resumes

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	uploads map[string]Upload
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{uploads: make(map[string]Upload)}
}

func (r *MemoryRepo) Create(ctx context.Context, u Upload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.uploads {
		if existing.UserID == u.UserID && existing.ResumeID == u.ResumeID && u.ResumeID != 0 {
			return ErrDuplicate
		}
	}
	r.uploads[u.ID] = u
	return nil
}

func (r *MemoryRepo) GetByResume(ctx context.Context, userID string, resumeID int64) (Upload, error) {
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.uploads {
		if u.UserID == userID && u.ResumeID == resumeID {
			return u, nil
		}
	}
	return Upload{}, ErrNotFound
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Upload, 0)
	for _, u := range r.uploads {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ ArchiveRepo = (*MemoryRepo)(nil)
