package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cachedomain "github.com/reshetovitsme/channel-scout/internal/modules/cache/domain"
	feedService "github.com/reshetovitsme/channel-scout/internal/modules/feed/service"
	historyService "github.com/reshetovitsme/channel-scout/internal/modules/history/service"
	searchService "github.com/reshetovitsme/channel-scout/internal/modules/search/service"
	"github.com/reshetovitsme/channel-scout/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// CacheAdmin exposes cache maintenance over HTTP.
type CacheAdmin interface {
	Stats(ctx context.Context) cachedomain.Stats
	EvictExpired(ctx context.Context) int
	EvictAll(ctx context.Context) int
}

// Server handles the REST API, the event stream and result feeds
type Server struct {
	cfg         *config.Config
	sessions    *searchService.Manager
	cache       CacheAdmin
	feedService *feedService.Service
	history     *historyService.Service
	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	upgrader    websocket.Upgrader

	// runs started by requests outlive them and stop on Shutdown
	runCtx    context.Context
	cancelRun context.CancelFunc
	server    *http.Server
}

// New creates a new HTTP server
func New(
	cfg *config.Config,
	sessions *searchService.Manager,
	cache CacheAdmin,
	feedService *feedService.Service,
	history *historyService.Service,
	gatherer prometheus.Gatherer,
) *Server {
	runCtx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:         cfg,
		sessions:    sessions,
		cache:       cache,
		feedService: feedService,
		history:     history,
		gatherer:    gatherer,
		logger:      slog.Default(),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(_ *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		runCtx:    runCtx,
		cancelRun: cancel,
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the routed and instrumented handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleSnapshot)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/search", s.handleSearch)
	mux.HandleFunc("POST /api/sessions/{id}/more", s.handleLoadMore)
	mux.HandleFunc("DELETE /api/sessions/{id}/results", s.handleClear)
	mux.HandleFunc("GET /api/sessions/{id}/quota", s.handleQuota)
	mux.HandleFunc("GET /api/sessions/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /api/sessions/{id}/events", s.handleEvents)
	for _, format := range []string{"rss", "atom", "json"} {
		mux.HandleFunc("GET /api/sessions/{id}/feed."+format, s.handleFeed(format))
	}

	mux.HandleFunc("GET /api/cache/stats", s.handleCacheStats)
	mux.HandleFunc("POST /api/cache/evict", s.handleCacheEvict)

	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and cancels runs started over HTTP
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancelRun()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Channel Scout</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Channel Scout</h1>
    <div class="info">
        <p>Finds YouTube channels whose keywords or recent video tags match your search terms.</p>
        <p>Create a session: <code>POST /api/sessions</code></p>
        <p>Start a search: <code>POST /api/sessions/{id}/search</code></p>
        <p>Analyze more channels: <code>POST /api/sessions/{id}/more</code></p>
        <p>Watch progress: <code>GET /api/sessions/{id}/events</code> (WebSocket)</p>
        <p>Subscribe to results: <code>/api/sessions/{id}/feed.rss</code>, <code>feed.atom</code>, <code>feed.json</code></p>
    </div>
    <p><a href="/health">Health Check</a> | <a href="/metrics">Metrics</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
