package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MemoryStore is a process-local Store. Its contents die with the process.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// NewMemoryStoreFromDir seeds a MemoryStore with every <key>.json file in dir.
// A missing or unreadable directory yields an empty store.
func NewMemoryStoreFromDir(dir string) *MemoryStore {
	s := NewMemoryStore()
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return s
	}
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		key := strings.TrimSuffix(filepath.Base(f), ".json")
		s.data[key] = raw
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
