package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	YouTubeAPIKey    string         `koanf:"youtube_api_key"`
	YouTubeAPIBase   string         `koanf:"youtube_api_base"`
	YouTubeMaxRPS    float64        `koanf:"youtube_max_rps"`
	HTTPTimeout      int            `koanf:"http_timeout"`
	HTTPPort         string         `koanf:"http_port"`
	PublicBaseURL    string         `koanf:"public_base_url"`
	StoragePath      string         `koanf:"storage_path"`
	LogLevel         string         `koanf:"log_level"`
	TelegramBotToken string         `koanf:"telegram_bot_token"`
	AllowedUsers     []int64        `koanf:"-"`
	AppEnv           AppEnv         `koanf:"-"`
	Cache            CacheConfig    `koanf:"cache"`
	Quota            QuotaConfig    `koanf:"quota"`
	Pipeline         PipelineConfig `koanf:"pipeline"`
	Search           SearchConfig   `koanf:"search"`
}

type CacheConfig struct {
	Backend    CacheBackend `koanf:"-"`
	TTLHours   int          `koanf:"ttl_hours"`
	MaxBytes   int64        `koanf:"max_bytes"`
	MaxEntries int          `koanf:"max_entries"`
	RedisURL   string       `koanf:"redis_url"`
}

type QuotaConfig struct {
	DailyLimit       int64 `koanf:"daily_limit"`
	ChannelCostPerID bool  `koanf:"channel_cost_per_id"`
}

type PipelineConfig struct {
	InitialBatch    int `koanf:"initial_batch"`
	BatchSize       int `koanf:"batch_size"`
	GroupSize       int `koanf:"group_size"`
	GroupPauseMS    int `koanf:"group_pause_ms"`
	VideoSampleSize int `koanf:"video_sample_size"`
	SearchPageSize  int `koanf:"search_page_size"`
}

// SearchConfig holds the default search request used by the CLI and by requests that omit fields.
type SearchConfig struct {
	Terms          []string `koanf:"-"`
	MinSubscribers int64    `koanf:"min_subscribers"`
	MinViews       int64    `koanf:"min_views"`
	MaxPages       int      `koanf:"max_pages"`
	AgeMonths      int      `koanf:"age_months"`
	LoadAll        bool     `koanf:"load_all"`
}

var defaults = map[string]any{
	"youtube_api_base":           "https://www.googleapis.com/youtube/v3",
	"youtube_max_rps":            10.0,
	"http_timeout":               15,
	"http_port":                  "8080",
	"storage_path":               "./data",
	"log_level":                  "info",
	"app_env":                    "production",
	"cache.backend":              "file",
	"cache.ttl_hours":            24,
	"cache.max_bytes":            5 * 1024 * 1024,
	"cache.max_entries":          20000,
	"quota.daily_limit":          10000,
	"quota.channel_cost_per_id":  true,
	"pipeline.initial_batch":     10,
	"pipeline.batch_size":        10,
	"pipeline.group_size":        3,
	"pipeline.group_pause_ms":    100,
	"pipeline.video_sample_size": 5,
	"pipeline.search_page_size":  25,
	"search.min_subscribers":     1000,
	"search.min_views":           10000,
	"search.max_pages":           4,
	"search.age_months":          3,
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values; CACHE__BACKEND -> cache.backend
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, oops.With("key", key).Wrap(err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// links handed out by the bot and the feeds are built on it
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.AllowedUsers = parseInt64List(k.Get("allowed_users"))
	cfg.Search.Terms = parseStringList(k.Get("search.terms"))

	appEnv, err := ParseAppEnv(k.String("app_env"))
	if err != nil {
		appEnv = AppEnvProduction
	}
	cfg.AppEnv = appEnv

	backend, err := ParseCacheBackend(k.String("cache.backend"))
	if err != nil {
		return nil, oops.With("cache_backend", k.String("cache.backend")).Wrap(err)
	}
	cfg.Cache.Backend = backend

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisURL == "" {
		return oops.With("cache_backend", c.Cache.Backend).Errorf("cache.redis_url is required for the redis backend")
	}
	if c.Cache.TTLHours <= 0 {
		return oops.With("ttl_hours", c.Cache.TTLHours).Errorf("cache.ttl_hours must be positive")
	}
	if c.Pipeline.GroupSize <= 0 || c.Pipeline.BatchSize <= 0 || c.Pipeline.InitialBatch <= 0 {
		return oops.With("pipeline", c.Pipeline).Errorf("pipeline sizes must be positive")
	}
	return nil
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// GroupPause returns the pause between enrichment groups.
func (c *Config) GroupPause() time.Duration {
	return time.Duration(c.Pipeline.GroupPauseMS) * time.Millisecond
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}

// ParseTerms splits a comma-separated list of search terms, dropping blanks.
func ParseTerms(s string) []string {
	return lo.FilterMap(strings.Split(s, ","), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}

func parseInt64List(v any) []int64 {
	switch val := v.(type) {
	case nil:
		return []int64{}
	case string:
		return ParseAllowedUsers(val)
	case []any:
		return lo.FilterMap(val, func(item any, _ int) (int64, bool) {
			switch n := item.(type) {
			case int64:
				return n, true
			case int:
				return int64(n), true
			case float64:
				return int64(n), true
			case string:
				ids := ParseAllowedUsers(n)
				return lo.FirstOr(ids, 0), len(ids) == 1
			default:
				return 0, false
			}
		})
	default:
		return []int64{}
	}
}

func parseStringList(v any) []string {
	switch val := v.(type) {
	case string:
		return ParseTerms(val)
	case []any:
		return lo.FilterMap(val, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			s = strings.TrimSpace(s)
			return s, ok && s != ""
		})
	case []string:
		return lo.Compact(lo.Map(val, func(s string, _ int) string { return strings.TrimSpace(s) }))
	default:
		return nil
	}
}
