package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
)

// MemoryStorage keeps entries in process memory, bounded by total value size.
type MemoryStorage struct {
	maxBytes int64
	used     int64
	data     map[string][]byte
	mu       sync.RWMutex
}

// NewMemoryStorage creates an in-memory store. maxBytes <= 0 means unbounded.
func NewMemoryStorage(maxBytes int64) *MemoryStorage {
	return &MemoryStorage{
		maxBytes: maxBytes,
		data:     make(map[string][]byte),
	}
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, errors.ErrEntryNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStorage) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used - int64(len(s.data[key])) + int64(len(value))
	if s.maxBytes > 0 && next > s.maxBytes {
		return errors.ErrStorageFull
	}
	s.data[key] = append([]byte(nil), value...)
	s.used = next
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := s.data[key]; ok {
		s.used -= int64(len(value))
		delete(s.data, key)
	}
	return nil
}

func (s *MemoryStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
