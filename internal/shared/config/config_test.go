package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.YouTubeAPIBase)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, CacheBackendFile, cfg.Cache.Backend)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.Equal(t, int64(10000), cfg.Quota.DailyLimit)
	assert.True(t, cfg.Quota.ChannelCostPerID)
	assert.Equal(t, 10, cfg.Pipeline.InitialBatch)
	assert.Equal(t, 3, cfg.Pipeline.GroupSize)
	assert.Equal(t, 4, cfg.Search.MaxPages)
	assert.Equal(t, AppEnvProduction, cfg.AppEnv)
	assert.Empty(t, cfg.AllowedUsers)
	assert.Empty(t, cfg.PublicBaseURL)
	assert.Equal(t, int64(24*3600), int64(cfg.CacheTTL().Seconds()))
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	yaml := `
youtube_api_key: from-file
allowed_users: [1, 2]
cache:
  backend: sqlite
  max_entries: 50
search:
  terms: [lofi, " study beats "]
  max_pages: 2
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0600))
	t.Setenv("YOUTUBE_API_KEY", "from-env")
	t.Setenv("PIPELINE__GROUP_PAUSE_MS", "250")
	t.Setenv("APP_ENV", "development")
	t.Setenv("PUBLIC_BASE_URL", "https://scout.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.YouTubeAPIKey)
	assert.Equal(t, []int64{1, 2}, cfg.AllowedUsers)
	assert.Equal(t, CacheBackendSqlite, cfg.Cache.Backend)
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
	assert.Equal(t, []string{"lofi", "study beats"}, cfg.Search.Terms)
	assert.Equal(t, 2, cfg.Search.MaxPages)
	assert.Equal(t, "https://scout.example.com", cfg.PublicBaseURL)
	assert.Equal(t, 250, cfg.Pipeline.GroupPauseMS)
	assert.Equal(t, AppEnvDevelopment, cfg.AppEnv)
}

func TestLoad_EnvLists(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ALLOWED_USERS", "10, x, 20")
	t.Setenv("SEARCH__TERMS", "music, ,news")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, cfg.AllowedUsers)
	assert.Equal(t, []string{"music", "news"}, cfg.Search.Terms)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("CACHE__BACKEND", "tape")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidCacheBackend)
	})

	t.Run("redis without url", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("CACHE__BACKEND", "redis")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestParseAllowedUsers(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, ParseAllowedUsers("1, 2,3"))
	assert.Empty(t, ParseAllowedUsers(""))
}
