package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	cacheRepo "github.com/reshetovitsme/channel-scout/internal/modules/cache/repository"
	cacheService "github.com/reshetovitsme/channel-scout/internal/modules/cache/service"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	quotaService "github.com/reshetovitsme/channel-scout/internal/modules/quota/service"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-secret-key"

type fakeAPI struct {
	t     *testing.T
	calls map[string]*atomic.Int32
	mux   *http.ServeMux
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{t: t, calls: map[string]*atomic.Int32{}, mux: http.NewServeMux()}
}

func (f *fakeAPI) handle(resource string, fn func(w http.ResponseWriter, r *http.Request)) {
	counter := &atomic.Int32{}
	f.calls[resource] = counter
	f.mux.HandleFunc("/"+resource, func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		assert.Equal(f.t, testKey, r.URL.Query().Get("key"))
		fn(w, r)
	})
}

func (f *fakeAPI) count(resource string) int {
	if c, ok := f.calls[resource]; ok {
		return int(c.Load())
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, api *fakeAPI) (*Client, *quotaService.Meter) {
	t.Helper()
	server := httptest.NewServer(api.mux)
	t.Cleanup(server.Close)

	meter := quotaService.NewMeter(nil)
	cache := cacheService.New(cacheRepo.NewMemoryStorage(0), time.Hour)
	c := New(Config{
		BaseURL:          server.URL,
		APIKey:           testKey,
		ChannelCostPerID: true,
	}, server.Client(), cache, meter)
	return c, meter
}

func TestSearchVideos(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "music", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "25", q.Get("maxResults"))
		assert.Equal(t, "tok1", q.Get("pageToken"))
		writeJSON(w, http.StatusOK, map[string]any{
			"nextPageToken": "tok2",
			"items": []map[string]any{
				{"snippet": map[string]any{"channelId": "UC1"}},
				{"snippet": map[string]any{"channelId": "UC2"}},
				{"snippet": map[string]any{"channelId": "UC1"}},
				{"snippet": map[string]any{}},
			},
		})
	})
	c, meter := newTestClient(t, api)

	page, err := c.SearchVideos(context.Background(), "music", "tok1")
	require.NoError(t, err)

	assert.Equal(t, []string{"UC1", "UC2"}, page.ChannelIDs)
	assert.Equal(t, "tok2", page.NextPageToken)
	assert.Equal(t, quotadomain.State{Search: 100, Total: 100, CacheMisses: 1}, meter.Snapshot())
}

func channelJSON(id string, subs, views int) map[string]any {
	return map[string]any{
		"id": id,
		"snippet": map[string]any{
			"title":       "Channel " + id,
			"description": "about " + id,
			"publishedAt": "2026-04-01T08:30:00Z",
			"thumbnails": map[string]any{
				"medium": map[string]any{"url": "https://img/" + id + "/m.jpg"},
			},
		},
		"statistics": map[string]any{
			"subscriberCount": fmt.Sprint(subs),
			"viewCount":       fmt.Sprint(views),
			"videoCount":      "not-a-number",
		},
	}
}

func TestGetChannelBasic_BatchesAndCaches(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snippet,statistics", r.URL.Query().Get("part"))
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		assert.LessOrEqual(t, len(ids), 50)
		items := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			items = append(items, channelJSON(id, 1500, 20000))
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	})
	c, meter := newTestClient(t, api)

	ids := make([]string, 0, 120)
	for i := range 120 {
		ids = append(ids, fmt.Sprintf("UC%03d", i))
	}

	ctx := context.Background()
	got, err := c.GetChannelBasic(ctx, ids)
	require.NoError(t, err)
	require.Len(t, got, 120)
	assert.Equal(t, 3, api.count("channels"))
	assert.Equal(t, quotadomain.State{Channels: 120, Total: 120, CacheMisses: 3}, meter.Snapshot())

	info := got["UC007"]
	assert.Equal(t, "Channel UC007", info.Title)
	assert.Equal(t, int64(1500), info.SubscriberCount)
	assert.Equal(t, int64(20000), info.ViewCount)
	assert.Zero(t, info.VideoCount)
	assert.Equal(t, "https://img/UC007/m.jpg", info.ThumbnailURL)
	assert.Equal(t, time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC), info.PublishedAt.UTC())

	meter.Reset()
	again, err := c.GetChannelBasic(ctx, ids[:10])
	require.NoError(t, err)
	assert.Len(t, again, 10)
	assert.Equal(t, 3, api.count("channels"), "second lookup is served from cache")
	assert.Equal(t, quotadomain.State{CacheHits: 10}, meter.Snapshot())
}

func TestGetChannelBasic_CostPerCall(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{channelJSON("UC1", 1, 1), channelJSON("UC2", 1, 1)}})
	})
	c, meter := newTestClient(t, api)
	c.cfg.ChannelCostPerID = false

	_, err := c.GetChannelBasic(context.Background(), []string{"UC1", "UC2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), meter.Snapshot().Channels)
}

func TestGetChannelKeywords(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brandingSettings", r.URL.Query().Get("part"))
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{{
			"id": "UC1",
			"brandingSettings": map[string]any{
				"channel": map[string]any{"keywords": `Music, "Music News" ,jazz,music`},
			},
		}}})
	})
	c, meter := newTestClient(t, api)

	ctx := context.Background()
	keywords, err := c.GetChannelKeywords(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, []string{"music", "music news", "jazz"}, keywords)
	assert.Equal(t, int64(1), meter.Snapshot().Channels)

	cached, err := c.GetChannelKeywords(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, keywords, cached)
	assert.Equal(t, 1, api.count("channels"))
	assert.Equal(t, int64(1), meter.Snapshot().CacheHits)
}

func TestGetChannelKeywords_EmptyIsCached(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})
	c, _ := newTestClient(t, api)

	ctx := context.Background()
	keywords, err := c.GetChannelKeywords(ctx, "UC1")
	require.NoError(t, err)
	assert.Empty(t, keywords)

	_, err = c.GetChannelKeywords(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("channels"))
}

func TestGetChannelVideoTags(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "UC1", q.Get("channelId"))
		assert.Equal(t, "date", q.Get("order"))
		assert.Equal(t, "5", q.Get("maxResults"))
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{
			{"id": map[string]any{"videoId": "v1"}},
			{"id": map[string]any{"videoId": "v2"}},
		}})
	})
	api.handle("videos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1,v2", r.URL.Query().Get("id"))
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{
			{"id": "v1", "snippet": map[string]any{"tags": []string{"Lofi", "Beats"}}},
			{"id": "v2", "snippet": map[string]any{"tags": []string{"beats", "Study"}}},
		}})
	})
	c, meter := newTestClient(t, api)

	ctx := context.Background()
	tags, err := c.GetChannelVideoTags(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, []string{"lofi", "beats", "study"}, tags)
	assert.Equal(t, quotadomain.State{Search: 100, Videos: 1, Total: 101, CacheMisses: 2}, meter.Snapshot())

	_, err = c.GetChannelVideoTags(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("search"))
	assert.Equal(t, 1, api.count("videos"))
}

func TestGetChannelVideoTags_NoVideos(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})
	api.handle("videos", func(w http.ResponseWriter, r *http.Request) {
		t.Error("videos must not be requested without video ids")
	})
	c, meter := newTestClient(t, api)

	tags, err := c.GetChannelVideoTags(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Equal(t, int64(100), meter.Snapshot().Total)
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   errors.Kind
	}{
		{
			name:   "quota exceeded",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.","errors":[{"reason":"quotaExceeded"}]}}`,
			want:   errors.KindQuotaExceeded,
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"Forbidden","errors":[{"reason":"forbidden"}]}}`,
			want:   errors.KindInvalidCredential,
		},
		{
			name:   "api not enabled",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"YouTube Data API v3 has not been used in project 1 before or it is disabled.","errors":[{"reason":"accessNotConfigured"}]}}`,
			want:   errors.KindApiNotEnabled,
		},
		{
			name:   "invalid key",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","errors":[{"reason":"badRequest"}]}}`,
			want:   errors.KindInvalidCredential,
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"Invalid value for parameter","errors":[{"reason":"invalidParameter"}]}}`,
			want:   errors.KindBadRequest,
		},
		{
			name:   "server error with html body",
			status: http.StatusInternalServerError,
			body:   `<html>oops</html>`,
			want:   errors.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle("search", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			c, meter := newTestClient(t, api)

			_, err := c.SearchVideos(context.Background(), "music", "")
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.KindOf(err))
			assert.Zero(t, meter.Snapshot().Total, "failed calls are not charged")
		})
	}
}

func TestNetworkErrorHidesCredential(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	meter := quotaService.NewMeter(nil)
	cache := cacheService.New(cacheRepo.NewMemoryStorage(0), time.Hour)
	c := New(Config{BaseURL: server.URL, APIKey: testKey}, NewHTTPDoer(time.Second), cache, meter)

	_, err := c.SearchVideos(context.Background(), "music", "")
	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
	assert.NotContains(t, err.Error(), testKey)
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "", want: []string{}},
		{raw: "music, news ,Music", want: []string{"music", "news"}},
		{raw: `gaming "let's play" Minecraft`, want: []string{"gaming", "let's play", "minecraft"}},
		{raw: `"lo fi"  beats`, want: []string{"lo fi", "beats"}},
		{raw: ` , ,`, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKeywords(tt.raw))
		})
	}
}
