package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	quotaService "github.com/reshetovitsme/channel-scout/internal/modules/quota/service"
	searchdomain "github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
	searchService "github.com/reshetovitsme/channel-scout/internal/modules/search/service"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/samber/oops"
)

const (
	apiKeyHeader      = "X-YouTube-Api-Key"
	defaultHistoryLen = 20
)

type sessionResponse struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
}

type runResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*searchService.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create("")
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Owner: sess.Owner})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// defaultRequest seeds a request with the configured search defaults; the body overrides them.
func (s *Server) defaultRequest() searchdomain.Request {
	return searchdomain.Request{
		SearchTerms:        slices.Clone(s.cfg.Search.Terms),
		MinSubscriberCount: s.cfg.Search.MinSubscribers,
		MinViewCount:       s.cfg.Search.MinViews,
		MaxPagesPerTerm:    s.cfg.Search.MaxPages,
		ChannelAgeMonths:   s.cfg.Search.AgeMonths,
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	req := s.defaultRequest()
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.NewValidation("body", oops.Wrapf(err, "malformed request")))
			return
		}
	}
	req.APIKey = r.Header.Get(apiKeyHeader)
	if req.APIKey == "" {
		req.APIKey = s.cfg.YouTubeAPIKey
	}

	err := sess.StartSearch(s.runCtx, req, func(_ searchdomain.Summary, err error) {
		if err != nil {
			s.logger.Warn("search run ended with error", "session_id", sess.ID, "kind", errors.KindOf(err), "error", err)
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, runResponse{ID: sess.ID, Status: "started"})
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.StartLoadMore(s.runCtx, nil); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, runResponse{ID: sess.ID, Status: "started"})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Clear(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	analysis := quotaService.Analyze(sess.Snapshot().Quota, s.cache.Stats(r.Context()), s.cfg.Quota.DailyLimit)
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	limit := defaultHistoryLen
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, errors.NewValidation("limit", oops.Errorf("must be a positive integer")))
			return
		}
		limit = n
	}

	runs, err := s.history.GetRuns(sess.Owner, limit)
	if err != nil {
		s.logger.Error("Error reading run history", "owner", sess.Owner, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleFeed(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}

		baseURL := s.cfg.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("%s://%s", getScheme(r), r.Host)
		}
		feed := s.feedService.GenerateFeed(sess.ID, baseURL, sess.Snapshot())

		var (
			body        string
			contentType string
			err         error
		)
		switch format {
		case "atom":
			body, err = feed.ToAtom()
			contentType = "application/atom+xml; charset=utf-8"
		case "json":
			body, err = feed.ToJSON()
			contentType = "application/feed+json; charset=utf-8"
		default:
			body, err = feed.ToRss()
			contentType = "application/rss+xml; charset=utf-8"
		}
		if err != nil {
			s.logger.Error("Error rendering feed", "session_id", sess.ID, "format", format, "error", err)
			http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := s.cache.Stats(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"totalEntries":   stats.TotalEntries,
		"validEntries":   stats.ValidEntries,
		"expiredEntries": stats.ExpiredEntries,
		"sizeKB":         stats.SizeKB(),
	})
}

func (s *Server) handleCacheEvict(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	var removed int
	if all {
		removed = s.cache.EvictAll(r.Context())
	} else {
		removed = s.cache.EvictExpired(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
