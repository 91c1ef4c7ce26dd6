package repository

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements Storage with one file per key, bounded by total size on disk
type FileStorage struct {
	basePath string
	maxBytes int64
	used     int64
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based cache store under basePath/cache
func NewFileStorage(basePath string, maxBytes int64) (*FileStorage, error) {
	cachePath := filepath.Join(basePath, "cache")
	if err := os.MkdirAll(cachePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create cache directory").Wrap(err)
	}

	entries, err := os.ReadDir(cachePath)
	if err != nil {
		return nil, oops.With("directory", cachePath, "context", "failed to read cache directory").Wrap(err)
	}
	used := lo.SumBy(entries, func(entry os.DirEntry) int64 {
		info, err := entry.Info()
		if err != nil || entry.IsDir() {
			return 0
		}
		return info.Size()
	})

	return &FileStorage{basePath: cachePath, maxBytes: maxBytes, used: used}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.basePath, url.PathEscape(key)+".json")
}

func (s *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrEntryNotFound
		}
		return nil, oops.With("key", key, "context", "failed to read cache entry").Wrap(err)
	}
	return data, nil
}

func (s *FileStorage) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	var previous int64
	if info, err := os.Stat(path); err == nil {
		previous = info.Size()
	}

	next := s.used - previous + int64(len(value))
	if s.maxBytes > 0 && next > s.maxBytes {
		return errors.ErrStorageFull
	}

	if err := os.WriteFile(path, value, 0644); err != nil {
		return oops.With("key", key, "context", "failed to write cache entry").Wrap(err)
	}
	s.used = next
	return nil
}

func (s *FileStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return oops.With("key", key).Wrap(err)
	}
	if err := os.Remove(path); err != nil {
		return oops.With("key", key, "context", "failed to delete cache entry").Wrap(err)
	}
	s.used -= info.Size()
	return nil
}

func (s *FileStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("directory", s.basePath, "context", "failed to read cache directory").Wrap(err)
	}

	keys := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return "", false
		}
		key, err := url.PathUnescape(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return "", false
		}
		return key, strings.HasPrefix(key, prefix)
	})

	return keys, nil
}

func (s *FileStorage) Close() error {
	return nil
}
