package repository

import (
	"context"
	"os"
	"testing"

	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "youtube_cache_channel_basic_missing")
	assert.ErrorIs(t, err, errors.ErrEntryNotFound)

	require.NoError(t, s.Put(ctx, "youtube_cache_channel_basic_UC1", []byte(`{"a":1}`)))
	require.NoError(t, s.Put(ctx, "youtube_cache_channel_keywords_UC1", []byte(`["x"]`)))
	require.NoError(t, s.Put(ctx, "other/key", []byte(`v`)))

	got, err := s.Get(ctx, "youtube_cache_channel_basic_UC1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, s.Put(ctx, "youtube_cache_channel_basic_UC1", []byte(`{"a":2}`)))
	got, err = s.Get(ctx, "youtube_cache_channel_basic_UC1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	keys, err := s.Keys(ctx, "youtube_cache_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"youtube_cache_channel_basic_UC1",
		"youtube_cache_channel_keywords_UC1",
	}, keys)

	require.NoError(t, s.Delete(ctx, "youtube_cache_channel_basic_UC1"))
	require.NoError(t, s.Delete(ctx, "youtube_cache_channel_basic_UC1"), "deleting a missing key is a no-op")
	_, err = s.Get(ctx, "youtube_cache_channel_basic_UC1")
	assert.ErrorIs(t, err, errors.ErrEntryNotFound)

	keys, err = s.Keys(ctx, "youtube_cache_")
	require.NoError(t, err)
	assert.Equal(t, []string{"youtube_cache_channel_keywords_UC1"}, keys)

	got, err = s.Get(ctx, "other/key")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage(0))
}

func TestMemoryStorage_Full(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage(10)

	require.NoError(t, s.Put(ctx, "a", []byte("12345")))
	require.NoError(t, s.Put(ctx, "b", []byte("12345")))
	assert.ErrorIs(t, s.Put(ctx, "c", []byte("1")), errors.ErrStorageFull)

	// Overwriting in place does not count the old value twice.
	require.NoError(t, s.Put(ctx, "a", []byte("54321")))

	require.NoError(t, s.Delete(ctx, "b"))
	assert.NoError(t, s.Put(ctx, "c", []byte("1")))
}

func TestFileStorage(t *testing.T) {
	s, err := NewFileStorage(t.TempDir(), 0)
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestFileStorage_FullAndReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStorage(dir, 8)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "a", []byte("123456")))
	assert.ErrorIs(t, s.Put(ctx, "b", []byte("123")), errors.ErrStorageFull)

	// Usage survives a restart.
	reopened, err := NewFileStorage(dir, 8)
	require.NoError(t, err)
	assert.ErrorIs(t, reopened.Put(ctx, "b", []byte("123")), errors.ErrStorageFull)

	got, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "123456", string(got))
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	exerciseStorage(t, s)
}

func TestSQLiteStorage_MaxEntries(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStorage(t.TempDir(), 2)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Put(ctx, "a", []byte("1")))
	require.NoError(t, s.Put(ctx, "b", []byte("2")))
	assert.ErrorIs(t, s.Put(ctx, "c", []byte("3")), errors.ErrStorageFull)
	assert.NoError(t, s.Put(ctx, "a", []byte("updated")))
}

func TestRedisStorage(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	s, err := NewRedisStorage(url)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := s.Keys(ctx, "youtube_cache_")
		for _, key := range append(keys, "other/key") {
			s.Delete(ctx, key)
		}
		s.Close()
	})
	exerciseStorage(t, s)
}
