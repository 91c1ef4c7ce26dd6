package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/reshetovitsme/channel-scout/internal/modules/cache/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/cache/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type basic struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subscribers int64  `json:"subscriberCount"`
}

func newTestService(t *testing.T, maxBytes int64) (*Service, *repository.MemoryStorage, *clock) {
	t.Helper()
	c := &clock{now: start}
	storage := repository.NewMemoryStorage(maxBytes)
	return New(storage, domain.DefaultTTL, WithClock(c.Now)), storage, c
}

func TestService_SetThenGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, 0)

	in := basic{ID: "UC1", Title: "Music Daily", Subscribers: 5000}
	svc.Set(ctx, domain.CacheTypeChannelBasic, "UC1", in)

	var out basic
	require.True(t, svc.Get(ctx, domain.CacheTypeChannelBasic, "UC1", &out))
	assert.Equal(t, in, out)

	var other basic
	assert.False(t, svc.Get(ctx, domain.CacheTypeChannelKeywords, "UC1", &other), "types are separate namespaces")
}

func TestService_GetMissing(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	var out []string
	assert.False(t, svc.Get(context.Background(), domain.CacheTypeChannelVideoTags, "nope", &out))
}

func TestService_EmptySliceIsAHit(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, 0)

	svc.Set(ctx, domain.CacheTypeChannelKeywords, "UC1", []string{})

	var out []string
	require.True(t, svc.Get(ctx, domain.CacheTypeChannelKeywords, "UC1", &out))
	assert.Empty(t, out)
}

func TestService_ExpiredEntryIsRemoved(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newTestService(t, 0)

	svc.Set(ctx, domain.CacheTypeChannelBasic, "UC1", basic{ID: "UC1"})
	require.Equal(t, 1, svc.Stats(ctx).TotalEntries)

	c.Advance(domain.DefaultTTL + time.Minute)

	var out basic
	assert.False(t, svc.Get(ctx, domain.CacheTypeChannelBasic, "UC1", &out))
	assert.Equal(t, 0, svc.Stats(ctx).TotalEntries)
}

func TestService_EntryAtExactTTLIsExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newTestService(t, 0)

	svc.Set(ctx, domain.CacheTypeChannelBasic, "UC1", basic{ID: "UC1"})
	c.Advance(domain.DefaultTTL)

	var out basic
	assert.False(t, svc.Get(ctx, domain.CacheTypeChannelBasic, "UC1", &out))
}

func TestService_CorruptEntryIsRemoved(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := newTestService(t, 0)

	key := domain.Key(domain.CacheTypeChannelBasic, "UC1")
	require.NoError(t, storage.Put(ctx, key, []byte("{not json")))

	var out basic
	assert.False(t, svc.Get(ctx, domain.CacheTypeChannelBasic, "UC1", &out))

	keys, err := storage.Keys(ctx, domain.KeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestService_StatsSplitsValidAndExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newTestService(t, 0)

	svc.Set(ctx, domain.CacheTypeChannelBasic, "old", basic{ID: "old"})
	c.Advance(25 * time.Hour)
	svc.Set(ctx, domain.CacheTypeChannelBasic, "new1", basic{ID: "new1"})
	svc.Set(ctx, domain.CacheTypeChannelKeywords, "new1", []string{"music"})

	stats := svc.Stats(ctx)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 2, stats.ValidEntries)
	assert.Equal(t, 1, stats.ExpiredEntries)
	assert.Positive(t, stats.SizeEstimate)
}

func TestService_EvictExpired(t *testing.T) {
	ctx := context.Background()
	svc, storage, c := newTestService(t, 0)

	svc.Set(ctx, domain.CacheTypeChannelBasic, "a", basic{ID: "a"})
	svc.Set(ctx, domain.CacheTypeChannelBasic, "b", basic{ID: "b"})
	c.Advance(25 * time.Hour)
	svc.Set(ctx, domain.CacheTypeChannelBasic, "c", basic{ID: "c"})
	require.NoError(t, storage.Put(ctx, "unrelated_key", []byte("x")))

	assert.Equal(t, 2, svc.EvictExpired(ctx))
	assert.Equal(t, 0, svc.EvictExpired(ctx))

	keys, err := storage.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"unrelated_key", domain.Key(domain.CacheTypeChannelBasic, "c")}, keys)
}

func TestService_EvictAllLeavesForeignKeys(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := newTestService(t, 0)

	svc.Set(ctx, domain.CacheTypeChannelBasic, "a", basic{ID: "a"})
	svc.Set(ctx, domain.CacheTypeChannelVideoTags, "a", []string{"tag"})
	require.NoError(t, storage.Put(ctx, "settings", []byte("{}")))

	assert.Equal(t, 2, svc.EvictAll(ctx))
	assert.Equal(t, 0, svc.Stats(ctx).TotalEntries)

	_, err := storage.Get(ctx, "settings")
	assert.NoError(t, err)
}

func TestService_SetEvictsExpiredWhenFull(t *testing.T) {
	ctx := context.Background()

	entry := func(id string) []byte {
		payload, _ := json.Marshal(basic{ID: id})
		raw, _ := json.Marshal(domain.Entry{Data: payload, Timestamp: start.UnixMilli()})
		return raw
	}
	// Room for roughly two entries.
	capacity := int64(len(entry("aa"))*2 + 10)

	svc, storage, c := newTestService(t, capacity)
	svc.Set(ctx, domain.CacheTypeChannelBasic, "aa", basic{ID: "aa"})
	svc.Set(ctx, domain.CacheTypeChannelBasic, "bb", basic{ID: "bb"})
	c.Advance(25 * time.Hour)

	svc.Set(ctx, domain.CacheTypeChannelBasic, "cc", basic{ID: "cc"})

	var out basic
	require.True(t, svc.Get(ctx, domain.CacheTypeChannelBasic, "cc", &out))
	assert.Equal(t, "cc", out.ID)

	keys, err := storage.Keys(ctx, domain.KeyPrefix)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestService_SetDropsWriteWhenStillFull(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := newTestService(t, 16)

	svc.Set(ctx, domain.CacheTypeChannelBasic, "UC1", basic{ID: "UC1", Title: "far too large for the store"})

	keys, err := storage.Keys(ctx, domain.KeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
