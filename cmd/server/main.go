package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/channel-scout/internal/di"
	searchService "github.com/reshetovitsme/channel-scout/internal/modules/search/service"
	"github.com/reshetovitsme/channel-scout/internal/shared/config"
	httpServer "github.com/reshetovitsme/channel-scout/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

const (
	sessionPruneInterval = 10 * time.Minute
	sessionMaxIdle       = 2 * time.Hour
)

func main() {
	// Setup structured logging with multiple handlers using slog-multi
	level := new(slog.LevelVar)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	logger := slog.New(multiHandler)
	slog.SetDefault(logger)

	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		slog.Warn("Unknown log level, using info", "log_level", cfg.LogLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Get services from DI container
	sessions := do.MustInvoke[*searchService.Manager](injector)
	httpServer := do.MustInvoke[*httpServer.Server](injector)

	go sessions.RunPruner(ctx, sessionPruneInterval, sessionMaxIdle)

	// Start HTTP server
	go func() {
		if err := httpServer.Start(); err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
			cancel()
		}
	}()

	if cfg.TelegramBotToken != "" {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			slog.Error("Failed to start telegram bot", "error", err)
			os.Exit(1)
		}
		go b.Start(ctx)
		slog.Info("Telegram bot started")
	}

	slog.Info("Application started", "port", cfg.HTTPPort, "env", cfg.AppEnv, "cache_backend", cfg.Cache.Backend)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")
}
