// Package cachetest wraps the in-memory cache with write counting and
// injectable storage failures.
package cachetest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"esi-server/internal/cache"
)

var ErrInjected = errors.New("cachetest: injected storage failure")

type Store struct {
	*cache.MemoryStore

	mu        sync.Mutex
	puts      map[string]int
	failGet   map[string]bool
	failPut   map[string]bool
	failScans bool
}

func New() *Store {
	return &Store{
		MemoryStore: cache.NewMemoryStore(),
		puts:        make(map[string]int),
		failGet:     make(map[string]bool),
		failPut:     make(map[string]bool),
	}
}

func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.Lock()
	fail := s.failGet[key]
	s.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *Store) Put(ctx context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	fail := s.failPut[key]
	if !fail {
		s.puts[key]++
	}
	s.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return s.MemoryStore.Put(ctx, key, value)
}

func (s *Store) Scan(ctx context.Context, suffix string) ([]cache.Entry, error) {
	s.mu.Lock()
	fail := s.failScans
	s.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return s.MemoryStore.Scan(ctx, suffix)
}

// Puts reports how many successful writes key has received.
func (s *Store) Puts(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[key]
}

func (s *Store) FailGet(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet[key] = true
}

func (s *Store) FailPut(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut[key] = true
}

func (s *Store) FailScans() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failScans = true
}

// Has reports whether key is present, bypassing injected failures.
func (s *Store) Has(key string) bool {
	_, err := s.MemoryStore.Get(context.Background(), key)
	return err == nil
}
