package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_DeduplicatesAcrossTermsAndPages(t *testing.T) {
	f := &fakeResources{pages: map[string][][]string{
		"music": {{"A", "B"}, {"B", "C"}, {"D"}},
		"news":  {{"C", "E", "A"}},
	}}

	ids, err := Discover(context.Background(), f, []string{"music", "news"}, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "E"}, ids)
	assert.Equal(t, []string{"music#", "music#page-1", "news#"}, f.searchCalls)
}

func TestDiscover_StopsWithoutContinuationToken(t *testing.T) {
	f := &fakeResources{pages: map[string][][]string{"music": {{"A"}}}}

	ids, err := Discover(context.Background(), f, []string{"music"}, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids)
	assert.Len(t, f.searchCalls, 1)
}

func TestDiscover_PropagatesFailure(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeResources{searchErr: boom}

	_, err := Discover(context.Background(), f, []string{"music"}, 1)
	assert.ErrorIs(t, err, boom)
}

func TestFetchBasics_KeepsDiscoveryOrder(t *testing.T) {
	f := &fakeResources{basics: map[string]channeldomain.BasicInfo{
		"A": {ID: "A"}, "B": {ID: "B"}, "C": {ID: "C"},
	}}

	out, err := FetchBasics(context.Background(), f, []string{"C", "gone", "A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, basicIDs(out))
}

func TestEnricher_GroupsAndProgress(t *testing.T) {
	f := &fakeResources{
		keywords: map[string][]string{"c1": {"music news"}, "c4": {"cooking"}},
		tags:     map[string][]string{"c2": {"music"}, "c5": {"jazz"}},
	}
	channels := make([]channeldomain.BasicInfo, 0, 7)
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"} {
		channels = append(channels, channeldomain.BasicInfo{ID: id})
	}

	var mu sync.Mutex
	var progress [][2]int
	e := Enricher{GroupSize: 3, Pause: time.Millisecond}
	out := e.Enrich(context.Background(), f, channels, []string{"music"}, func(done, total int) {
		mu.Lock()
		progress = append(progress, [2]int{done, total})
		mu.Unlock()
	})

	require.Len(t, out, 7)
	for i, ch := range out {
		assert.Equal(t, channels[i].ID, ch.ID, "order preserved")
		assert.NotNil(t, ch.ChannelKeywords)
		assert.NotNil(t, ch.VideoTags)
	}
	assert.True(t, out[0].HasMatchingTags)
	assert.True(t, out[1].HasMatchingTags)
	assert.False(t, out[3].HasMatchingTags)
	assert.False(t, out[4].HasMatchingTags)

	assert.Equal(t, [][2]int{{3, 7}, {6, 7}, {7, 7}}, progress)
	assert.LessOrEqual(t, f.maxInflight.Load(), int32(6), "at most 3 channels with 2 fetches each")
}

func TestEnricher_PausesOnlyBetweenGroups(t *testing.T) {
	const pauseFor = 100 * time.Millisecond
	channels := make([]channeldomain.BasicInfo, 0, 7)
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"} {
		channels = append(channels, channeldomain.BasicInfo{ID: id})
	}

	var groupDone []time.Duration
	start := time.Now()
	out := Enricher{GroupSize: 3, Pause: pauseFor}.Enrich(context.Background(), &fakeResources{}, channels, []string{"x"}, func(int, int) {
		groupDone = append(groupDone, time.Since(start))
	})
	elapsed := time.Since(start)

	require.Len(t, out, 7)
	require.Len(t, groupDone, 3)
	assert.GreaterOrEqual(t, elapsed, 2*pauseFor, "one pause between each pair of groups")
	assert.Less(t, groupDone[0], pauseFor, "no pause before the first group")
	assert.GreaterOrEqual(t, groupDone[1]-groupDone[0], pauseFor)
	assert.GreaterOrEqual(t, groupDone[2]-groupDone[1], pauseFor)
	assert.Less(t, elapsed-groupDone[2], pauseFor, "no pause after the last group")
}

func TestEnricher_PauseStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	channels := []channeldomain.BasicInfo{{ID: "a"}, {ID: "b"}}

	start := time.Now()
	out := Enricher{GroupSize: 1, Pause: time.Minute}.Enrich(ctx, &fakeResources{}, channels, []string{"x"}, func(done, _ int) {
		if done == 1 {
			cancel()
		}
	})

	assert.Len(t, out, 2)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestEnricher_FetchesKeywordsAndTagsConcurrently(t *testing.T) {
	h := newHandshakeFetcher()

	out := Enricher{}.Enrich(context.Background(), h, []channeldomain.BasicInfo{{ID: "a"}}, []string{"music"}, nil)

	require.Len(t, out, 1)
	assert.True(t, out[0].HasMatchingTags, "both lookups must be in flight together")
	assert.Equal(t, []string{"music"}, out[0].ChannelKeywords)
	assert.Equal(t, []string{"live"}, out[0].VideoTags)
}

func TestEnricher_IsolatesChannelFailures(t *testing.T) {
	f := &fakeResources{
		keywords:   map[string][]string{"bad": {"music"}, "good": {"music"}},
		failDetail: map[string]bool{"bad": true},
	}
	channels := []channeldomain.BasicInfo{{ID: "bad"}, {ID: "good"}}

	out := Enricher{GroupSize: 3}.Enrich(context.Background(), f, channels, []string{"music"}, nil)

	require.Len(t, out, 2)
	assert.False(t, out[0].HasMatchingTags)
	assert.Empty(t, out[0].ChannelKeywords)
	assert.Empty(t, out[0].VideoTags)
	assert.True(t, out[1].HasMatchingTags)
}

func TestEnricher_Empty(t *testing.T) {
	called := false
	out := Enricher{}.Enrich(context.Background(), &fakeResources{}, nil, []string{"x"}, func(int, int) { called = true })
	assert.Empty(t, out)
	assert.False(t, called)
}

func basicIDs(channels []channeldomain.BasicInfo) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ch.ID)
	}
	return out
}
