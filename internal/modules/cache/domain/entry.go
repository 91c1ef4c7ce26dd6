package domain

import (
	"encoding/json"
	"time"
)

// KeyPrefix namespaces every cache key in the backing store.
const KeyPrefix = "youtube_cache_"

// DefaultTTL is how long an entry stays valid after it is written.
const DefaultTTL = 24 * time.Hour

// Entry is the serialized form of a cached value.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds
}

// StoredAt returns the write time of the entry.
func (e Entry) StoredAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Valid reports whether the entry is still within its ttl at now.
func (e Entry) Valid(now time.Time, ttl time.Duration) bool {
	if e.Timestamp == 0 {
		return false
	}
	return now.Before(e.StoredAt().Add(ttl))
}

// Key builds the storage key for a cached resource.
func Key(t CacheType, id string) string {
	return KeyPrefix + string(t) + "_" + id
}

// Stats summarizes the cache contents.
type Stats struct {
	TotalEntries   int   `json:"total_entries"`
	ValidEntries   int   `json:"valid_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	SizeEstimate   int64 `json:"size_estimate"` // bytes
}

// SizeKB returns the size estimate rounded to kilobytes.
func (s Stats) SizeKB() int64 {
	return (s.SizeEstimate + 512) / 1024
}
