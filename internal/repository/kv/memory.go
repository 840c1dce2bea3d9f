package kv

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewMemory returns a process-local repository. Values are copied in and out.
func NewMemory() Repository {
	return &memoryRepo{store: make(map[string][]byte)}
}

func (r *memoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.store[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *memoryRepo) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[key] = append([]byte(nil), value...)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, key)
	return nil
}

func (r *memoryRepo) Ping(_ context.Context) error {
	return nil
}
