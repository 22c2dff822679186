package keyvalue

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-process Store for tests and single-node use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (GetResponse, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return GetResponse{}, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return GetResponse{}, nil
	}
	return GetResponse{Exists: true, Value: entry.value}, nil
}

func (s *MemoryStore) Set(_ context.Context, req SetRequest) error {
	entry := memoryEntry{value: req.Value}
	if req.Expires > 0 {
		entry.expiresAt = time.Now().Add(time.Duration(req.Expires) * time.Second)
	}
	s.mu.Lock()
	s.entries[req.Key] = entry
	s.mu.Unlock()
	return nil
}
