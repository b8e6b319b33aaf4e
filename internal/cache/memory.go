package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MemoryStore keeps entries in process memory. Used when no external backend
// is configured; contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]json.RawMessage
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(value), nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = clone(value)
	return nil
}

func (s *MemoryStore) Scan(_ context.Context, suffix string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []Entry
	for _, key := range s.order {
		if strings.HasSuffix(key, suffix) {
			entries = append(entries, Entry{Key: key, Value: clone(s.entries[key])})
		}
	}
	return entries, nil
}

// Len reports the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func clone(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out
}
