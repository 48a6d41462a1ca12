package wizard

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{states: make(map[string]State)}
}

func (r *MemoryRepo) Get(ctx context.Context, sessionID string) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.states[sessionID]
	if !ok {
		return State{}, ErrNotFound
	}
	return st, nil
}

func (r *MemoryRepo) Put(ctx context.Context, st State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st.SessionID == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	r.states[st.SessionID] = st
	r.mu.Unlock()
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
