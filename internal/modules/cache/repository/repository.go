package repository

import "context"

// Storage is the persistent key/value store behind the response cache.
// Implementations return errors.ErrEntryNotFound for missing keys and
// errors.ErrStorageFull when a write does not fit in the configured capacity.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
