package repository

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/oops"
)

// RedisStorage implements Storage on a Redis server. Entry expiry stays with the cache
// service so stats can still report expired entries; Redis maxmemory rejections map
// to ErrStorageFull.
type RedisStorage struct {
	rdb *redis.Client
}

// NewRedisStorage connects to redisURL and verifies the connection.
func NewRedisStorage(redisURL string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, oops.With("context", "invalid redis URL").Wrap(err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, oops.With("addr", opts.Addr, "context", "redis unreachable").Wrap(err)
	}

	slog.Info("cache: redis connected", "addr", opts.Addr)
	return &RedisStorage{rdb: rdb}, nil
}

// NewRedisStorageFromClient wraps an existing client.
func NewRedisStorageFromClient(rdb *redis.Client) *RedisStorage {
	return &RedisStorage{rdb: rdb}
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.ErrEntryNotFound
	}
	if err != nil {
		return nil, oops.With("key", key, "context", "failed to read cache entry").Wrap(err)
	}
	return data, nil
}

func (s *RedisStorage) Put(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		if isOutOfMemory(err) {
			return errors.ErrStorageFull
		}
		return oops.With("key", key, "context", "failed to write cache entry").Wrap(err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return oops.With("key", key, "context", "failed to delete cache entry").Wrap(err)
	}
	return nil
}

func (s *RedisStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, oops.With("prefix", prefix, "context", "failed to scan cache keys").Wrap(err)
	}
	return keys, nil
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}

func isOutOfMemory(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}
