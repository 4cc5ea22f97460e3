// Package repository persists learner progress as key/value pairs.
package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotFound indicates a key with no stored value.
var ErrNotFound = errors.New("progress key not found")

// ProgressStore reads and writes progress values by key, e.g.
// "challenge:shopping-budget" = "complete".
type ProgressStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// List returns every key with the given prefix.
	List(ctx context.Context, prefix string) (map[string]string, error)
	Close() error
}

type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns a process-local store.
func NewMemoryStore() ProgressStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryStore) List(_ context.Context, prefix string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range s.values {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

func (s *memoryStore) Close() error { return nil }
