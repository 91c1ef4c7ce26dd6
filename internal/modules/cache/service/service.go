package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/cache/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/cache/repository"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
)

// Service is the best-effort response cache. Failures are logged and swallowed:
// the cache is never a correctness dependency.
type Service struct {
	storage repository.Storage
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a cache service on top of storage.
func New(storage repository.Storage, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = domain.DefaultTTL
	}
	s := &Service{
		storage: storage,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get decodes the cached value for (t, id) into out and reports whether it was present.
// Expired and corrupted entries are removed and reported as absent.
func (s *Service) Get(ctx context.Context, t domain.CacheType, id string, out any) bool {
	key := domain.Key(t, id)
	raw, err := s.storage.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, errors.ErrEntryNotFound) {
			slog.Warn("cache: read failed", "key", key, "error", err)
		}
		return false
	}

	var entry domain.Entry
	if err := json.Unmarshal(raw, &entry); err != nil || !entry.Valid(s.now(), s.ttl) {
		s.remove(ctx, key)
		return false
	}
	if err := json.Unmarshal(entry.Data, out); err != nil {
		slog.Debug("cache: corrupt entry removed", "key", key, "error", err)
		s.remove(ctx, key)
		return false
	}
	return true
}

// Set stores data under (t, id). When the backend is full, expired entries are
// evicted once and the write retried; a second failure drops the write.
func (s *Service) Set(ctx context.Context, t domain.CacheType, id string, data any) {
	key := domain.Key(t, id)
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("cache: failed to encode value", "key", key, "error", err)
		return
	}
	raw, err := json.Marshal(domain.Entry{Data: payload, Timestamp: s.now().UnixMilli()})
	if err != nil {
		slog.Error("cache: failed to encode entry", "key", key, "error", err)
		return
	}

	err = s.storage.Put(ctx, key, raw)
	if err == nil {
		return
	}
	if !stderrors.Is(err, errors.ErrStorageFull) {
		slog.Error("cache: write failed", "key", key, "error", err)
		return
	}

	removed := s.EvictExpired(ctx)
	slog.Info("cache: storage full, evicted expired entries", "removed", removed)
	if err := s.storage.Put(ctx, key, raw); err != nil {
		slog.Error("cache: failed to cache data after cleanup", "key", key, "error", err)
	}
}

// EvictExpired removes expired and corrupted entries and returns how many were removed.
func (s *Service) EvictExpired(ctx context.Context) int {
	keys, err := s.storage.Keys(ctx, domain.KeyPrefix)
	if err != nil {
		slog.Error("cache: failed to list entries", "error", err)
		return 0
	}

	now := s.now()
	removed := 0
	for _, key := range keys {
		raw, err := s.storage.Get(ctx, key)
		if err != nil {
			continue
		}
		var entry domain.Entry
		if err := json.Unmarshal(raw, &entry); err == nil && entry.Valid(now, s.ttl) {
			continue
		}
		if s.remove(ctx, key) {
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("cache: cleared old entries", "removed", removed)
	}
	return removed
}

// EvictAll removes every cache entry and returns how many were removed.
func (s *Service) EvictAll(ctx context.Context) int {
	keys, err := s.storage.Keys(ctx, domain.KeyPrefix)
	if err != nil {
		slog.Error("cache: failed to list entries", "error", err)
		return 0
	}

	removed := 0
	for _, key := range keys {
		if s.remove(ctx, key) {
			removed++
		}
	}
	slog.Info("cache: cleared all entries", "removed", removed)
	return removed
}

// Stats counts entries by validity. Corrupted entries count as expired.
func (s *Service) Stats(ctx context.Context) domain.Stats {
	var stats domain.Stats
	keys, err := s.storage.Keys(ctx, domain.KeyPrefix)
	if err != nil {
		slog.Error("cache: failed to list entries", "error", err)
		return stats
	}

	now := s.now()
	for _, key := range keys {
		raw, err := s.storage.Get(ctx, key)
		if err != nil {
			continue
		}
		stats.TotalEntries++
		stats.SizeEstimate += int64(len(key) + len(raw))

		var entry domain.Entry
		if err := json.Unmarshal(raw, &entry); err == nil && entry.Valid(now, s.ttl) {
			stats.ValidEntries++
		}
	}
	stats.ExpiredEntries = stats.TotalEntries - stats.ValidEntries
	return stats
}

func (s *Service) remove(ctx context.Context, key string) bool {
	if err := s.storage.Delete(ctx, key); err != nil {
		slog.Warn("cache: delete failed", "key", key, "error", err)
		return false
	}
	return true
}
