package jdi

import (
	"context"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d.clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, sessionID string, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[sessionID] = d.clone()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, sessionID string, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if _, ok := s.drafts[sessionID]; !ok {
		s.drafts[sessionID] = d.clone()
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*Draft) error) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.drafts[sessionID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	d := stored.clone()
	if err := fn(&d); err != nil {
		return Draft{}, err
	}
	s.drafts[sessionID] = d.clone()
	return d, nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.drafts, sessionID)
	s.mu.Unlock()
	return nil
}

func (d Draft) clone() Draft {
	d.Sources = slices.Clone(d.Sources)
	d.ResumeIDs = slices.Clone(d.ResumeIDs)
	d.CustomPatterns = slices.Clone(d.CustomPatterns)
	return d
}

var _ DraftStore = (*MemoryStore)(nil)
