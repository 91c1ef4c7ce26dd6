package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	historydomain "github.com/reshetovitsme/channel-scout/internal/modules/history/domain"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/youtube/client"
)

// fakeResources serves canned API data. Search pages are addressed by "page-N" tokens.
type fakeResources struct {
	pages      map[string][][]string
	basics     map[string]channeldomain.BasicInfo
	keywords   map[string][]string
	tags       map[string][]string
	failDetail map[string]bool
	searchErr  error
	basicErr   error
	block      chan struct{}

	// keywordCost is charged to the run's tracker per keyword lookup
	keywordCost int64
	tracker     client.Tracker

	mu          sync.Mutex
	searchCalls []string
	inflight    atomic.Int32
	maxInflight atomic.Int32
}

func (f *fakeResources) SearchVideos(_ context.Context, term, pageToken string) (client.SearchPage, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, term+"#"+pageToken)
	f.mu.Unlock()
	if f.searchErr != nil {
		return client.SearchPage{}, f.searchErr
	}

	idx := 0
	if pageToken != "" {
		idx, _ = strconv.Atoi(strings.TrimPrefix(pageToken, "page-"))
	}
	pages := f.pages[term]
	if idx >= len(pages) {
		return client.SearchPage{}, nil
	}
	page := client.SearchPage{ChannelIDs: pages[idx]}
	if idx+1 < len(pages) {
		page.NextPageToken = fmt.Sprintf("page-%d", idx+1)
	}
	return page, nil
}

func (f *fakeResources) GetChannelBasic(_ context.Context, ids []string) (map[string]channeldomain.BasicInfo, error) {
	if f.basicErr != nil {
		return nil, f.basicErr
	}
	out := make(map[string]channeldomain.BasicInfo, len(ids))
	for _, id := range ids {
		if info, ok := f.basics[id]; ok {
			out[id] = info
		}
	}
	return out, nil
}

func (f *fakeResources) GetChannelKeywords(_ context.Context, id string) ([]string, error) {
	f.enter()
	defer f.inflight.Add(-1)
	if f.keywordCost > 0 {
		f.tracker.Track(quotadomain.CategoryChannels, f.keywordCost, false)
	}
	if f.failDetail[id] {
		return nil, fmt.Errorf("keywords unavailable for %s", id)
	}
	return f.keywords[id], nil
}

func (f *fakeResources) GetChannelVideoTags(_ context.Context, id string) ([]string, error) {
	f.enter()
	defer f.inflight.Add(-1)
	return f.tags[id], nil
}

func (f *fakeResources) enter() {
	n := f.inflight.Add(1)
	for {
		current := f.maxInflight.Load()
		if n <= current || f.maxInflight.CompareAndSwap(current, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
}

func (f *fakeResources) factory() ResourceFactory {
	return func(_ string, tracker client.Tracker) Resources {
		f.tracker = tracker
		return f
	}
}

type noopCache struct {
	evictions atomic.Int32
}

func (c *noopCache) EvictExpired(context.Context) int {
	c.evictions.Add(1)
	return 0
}

type memoryRecorder struct {
	mu   sync.Mutex
	runs []*historydomain.Run
}

func (r *memoryRecorder) SaveRun(run *historydomain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

// handshakeFetcher makes each lookup wait until the other one for the same channel has started,
// so it only completes when both run at once.
type handshakeFetcher struct {
	keywordsStarted chan struct{}
	tagsStarted     chan struct{}
}

func newHandshakeFetcher() *handshakeFetcher {
	return &handshakeFetcher{keywordsStarted: make(chan struct{}), tagsStarted: make(chan struct{})}
}

func (h *handshakeFetcher) GetChannelKeywords(context.Context, string) ([]string, error) {
	close(h.keywordsStarted)
	return []string{"music"}, h.await(h.tagsStarted, "tags")
}

func (h *handshakeFetcher) GetChannelVideoTags(context.Context, string) ([]string, error) {
	close(h.tagsStarted)
	return []string{"live"}, h.await(h.keywordsStarted, "keywords")
}

func (h *handshakeFetcher) await(started chan struct{}, other string) error {
	select {
	case <-started:
		return nil
	case <-time.After(time.Second):
		return fmt.Errorf("%s lookup never started", other)
	}
}
