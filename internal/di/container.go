package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	cacheRepo "github.com/reshetovitsme/channel-scout/internal/modules/cache/repository"
	cacheService "github.com/reshetovitsme/channel-scout/internal/modules/cache/service"
	feedService "github.com/reshetovitsme/channel-scout/internal/modules/feed/service"
	historyRepo "github.com/reshetovitsme/channel-scout/internal/modules/history/repository"
	historyService "github.com/reshetovitsme/channel-scout/internal/modules/history/service"
	quotaService "github.com/reshetovitsme/channel-scout/internal/modules/quota/service"
	searchService "github.com/reshetovitsme/channel-scout/internal/modules/search/service"
	settingsRepo "github.com/reshetovitsme/channel-scout/internal/modules/settings/repository"
	settingsService "github.com/reshetovitsme/channel-scout/internal/modules/settings/service"
	"github.com/reshetovitsme/channel-scout/internal/modules/youtube/client"
	"github.com/reshetovitsme/channel-scout/internal/shared/config"
	httpServer "github.com/reshetovitsme/channel-scout/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/channel-scout/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	Register(injector)
	return injector, nil
}

// Register provides every service except the config, which callers supply.
func Register(injector do.Injector) {
	// Register Cache Storage
	do.Provide(injector, func(i do.Injector) (cacheRepo.Storage, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return newCacheStorage(cfg)
	})

	// Register Cache Service
	do.Provide(injector, func(i do.Injector) (*cacheService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		storage := do.MustInvoke[cacheRepo.Storage](i)
		return cacheService.New(storage, cfg.CacheTTL()), nil
	})

	// Register Metrics Registry
	do.Provide(injector, func(i do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg, nil
	})

	// Register Quota Metrics
	do.Provide(injector, func(i do.Injector) (*quotaService.Metrics, error) {
		reg := do.MustInvoke[*prometheus.Registry](i)
		metrics, err := quotaService.NewMetrics(reg)
		if err != nil {
			return nil, oops.With("context", "failed to register quota metrics").Wrap(err)
		}
		return metrics, nil
	})

	// Register Resource Factory
	do.Provide(injector, func(i do.Injector) (searchService.ResourceFactory, error) {
		cfg := do.MustInvoke[*config.Config](i)
		cache := do.MustInvoke[*cacheService.Service](i)

		doer := client.NewHTTPDoer(time.Duration(cfg.HTTPTimeout) * time.Second)
		var opts []client.Option
		if cfg.YouTubeMaxRPS > 0 {
			// One limiter for all sessions; the API key's quota is per project, not per session.
			opts = append(opts, client.WithLimiter(rate.NewLimiter(rate.Limit(cfg.YouTubeMaxRPS), max(1, int(cfg.YouTubeMaxRPS)))))
		}

		return func(apiKey string, tracker client.Tracker) searchService.Resources {
			return client.New(client.Config{
				BaseURL:          cfg.YouTubeAPIBase,
				APIKey:           apiKey,
				SearchPageSize:   cfg.Pipeline.SearchPageSize,
				VideoSampleSize:  cfg.Pipeline.VideoSampleSize,
				ChannelCostPerID: cfg.Quota.ChannelCostPerID,
			}, doer, cache, tracker, opts...)
		}, nil
	})

	// Register History Repository
	do.Provide(injector, func(i do.Injector) (historyRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := historyRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize history repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Settings Repository
	do.Provide(injector, func(i do.Injector) (settingsRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := settingsRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize settings repository").Wrap(err)
		}
		return repo, nil
	})

	// Register History Service
	do.Provide(injector, func(i do.Injector) (*historyService.Service, error) {
		repo := do.MustInvoke[historyRepo.Repository](i)
		return historyService.New(repo), nil
	})

	// Register Settings Service
	do.Provide(injector, func(i do.Injector) (*settingsService.Service, error) {
		repo := do.MustInvoke[settingsRepo.Repository](i)
		return settingsService.New(repo), nil
	})

	// Register Session Manager
	do.Provide(injector, func(i do.Injector) (*searchService.Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		cache := do.MustInvoke[*cacheService.Service](i)
		metrics := do.MustInvoke[*quotaService.Metrics](i)
		factory := do.MustInvoke[searchService.ResourceFactory](i)
		history := do.MustInvoke[*historyService.Service](i)

		return searchService.NewManager(func(owner string) *searchService.Orchestrator {
			return searchService.NewOrchestrator(searchService.Options{
				InitialBatch: cfg.Pipeline.InitialBatch,
				BatchSize:    cfg.Pipeline.BatchSize,
				DailyLimit:   cfg.Quota.DailyLimit,
				Enricher: searchService.Enricher{
					GroupSize: cfg.Pipeline.GroupSize,
					Pause:     cfg.GroupPause(),
				},
				Owner:    owner,
				Recorder: history,
			}, factory, cache, quotaService.NewMeter(metrics), nil)
		}), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		return feedService.New(), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(
			cfg,
			do.MustInvoke[*searchService.Manager](i),
			do.MustInvoke[*cacheService.Service](i),
			do.MustInvoke[*feedService.Service](i),
			do.MustInvoke[*historyService.Service](i),
			do.MustInvoke[*prometheus.Registry](i),
		)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		return telegramHandler.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*searchService.Manager](i),
			do.MustInvoke[*settingsService.Service](i),
			do.MustInvoke[*historyService.Service](i),
			do.MustInvoke[*cacheService.Service](i),
		), nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.TelegramBotToken == "" {
			return nil, oops.Errorf("telegram_bot_token is not configured")
		}
		telegramHandler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(telegramHandler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		telegramHandler.RegisterCommands(b)
		return b, nil
	})
}

func newCacheStorage(cfg *config.Config) (cacheRepo.Storage, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		return cacheRepo.NewMemoryStorage(cfg.Cache.MaxBytes), nil
	case config.CacheBackendSqlite:
		storage, err := cacheRepo.NewSQLiteStorage(cfg.StoragePath, cfg.Cache.MaxEntries)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to open sqlite cache").Wrap(err)
		}
		return storage, nil
	case config.CacheBackendRedis:
		storage, err := cacheRepo.NewRedisStorage(cfg.Cache.RedisURL)
		if err != nil {
			return nil, oops.With("context", "failed to connect to redis cache").Wrap(err)
		}
		return storage, nil
	default:
		storage, err := cacheRepo.NewFileStorage(cfg.StoragePath, cfg.Cache.MaxBytes)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize file cache").Wrap(err)
		}
		return storage, nil
	}
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error

	if handler, err := do.Invoke[*telegramHandler.Handler](injector); err == nil && handler != nil {
		handler.Stop()
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, oops.With("context", "http server shutdown").Wrap(err))
		}
	}

	if storage, err := do.Invoke[cacheRepo.Storage](injector); err == nil && storage != nil {
		if err := storage.Close(); err != nil {
			errs = append(errs, oops.With("context", "cache storage close").Wrap(err))
		}
	}

	return errors.Join(errs...)
}
