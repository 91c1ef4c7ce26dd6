package service

import (
	"context"
	"log/slog"
	"time"

	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	channelService "github.com/reshetovitsme/channel-scout/internal/modules/channel/service"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultGroupSize  = 3
	DefaultGroupPause = 100 * time.Millisecond
)

// Enricher fetches keywords and video tags for channels in small concurrent groups.
type Enricher struct {
	GroupSize int
	Pause     time.Duration
}

// Enrich returns one EnrichedInfo per channel in input order. Groups run one after another
// with Pause between them; onProgress is called once per finished group with cumulative counts.
// A channel whose lookups fail is returned with no keywords or tags and no match.
func (e Enricher) Enrich(
	ctx context.Context,
	fetcher DetailFetcher,
	channels []channeldomain.BasicInfo,
	terms []string,
	onProgress func(done, total int),
) []channeldomain.EnrichedInfo {
	size := e.GroupSize
	if size <= 0 {
		size = DefaultGroupSize
	}

	out := make([]channeldomain.EnrichedInfo, len(channels))
	done := 0
	for gi, group := range lo.Chunk(channels, size) {
		if gi > 0 {
			pause(ctx, e.Pause)
		}

		offset := gi * size
		var g errgroup.Group
		for i, ch := range group {
			g.Go(func() error {
				out[offset+i] = enrichOne(ctx, fetcher, ch, terms)
				return nil
			})
		}
		g.Wait()

		done += len(group)
		if onProgress != nil {
			onProgress(done, len(channels))
		}
	}
	return out
}

func enrichOne(ctx context.Context, fetcher DetailFetcher, ch channeldomain.BasicInfo, terms []string) channeldomain.EnrichedInfo {
	var keywords, tags []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		keywords, err = fetcher.GetChannelKeywords(gctx, ch.ID)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = fetcher.GetChannelVideoTags(gctx, ch.ID)
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Warn("search: channel enrichment failed", "channel_id", ch.ID, "error", err)
		return channeldomain.EnrichedInfo{
			BasicInfo:       ch,
			ChannelKeywords: []string{},
			VideoTags:       []string{},
		}
	}

	return channeldomain.EnrichedInfo{
		BasicInfo:       ch,
		ChannelKeywords: lo.Ternary(keywords == nil, []string{}, keywords),
		VideoTags:       lo.Ternary(tags == nil, []string{}, tags),
		HasMatchingTags: channelService.MatchesAny(keywords, tags, terms),
	}
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
