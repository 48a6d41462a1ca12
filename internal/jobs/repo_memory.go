package jobs

import (
	"context"
	"sort"
	"sync"
)

type markKey struct {
	userID string
	kind   MarkKind
	jobKey string
}

type MemoryRepo struct {
	mu    sync.RWMutex
	marks map[markKey]Mark
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{marks: make(map[markKey]Mark)}
}

func (r *MemoryRepo) Add(ctx context.Context, m Mark) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := markKey{m.UserID, m.Kind, m.JobKey}
	if _, ok := r.marks[k]; !ok {
		r.marks[k] = m
	}
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, kind MarkKind) ([]Mark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Mark, 0)
	for k, m := range r.marks {
		if k.userID == userID && (kind == "" || k.kind == kind) {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].JobKey < out[j].JobKey
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Counts(ctx context.Context, userID string) (map[MarkKind]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[MarkKind]int{}
	for k := range r.marks {
		if k.userID == userID {
			out[k.kind]++
		}
	}
	return out, nil
}

var _ BoardRepo = (*MemoryRepo)(nil)
