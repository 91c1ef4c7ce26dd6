package client

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	cachedomain "github.com/reshetovitsme/channel-scout/internal/modules/cache/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

var thumbnailSizes = []string{"default", "medium", "high"}

// GetChannelBasic returns snippet and statistics for ids, keyed by id. Cached channels are
// served from cache; the rest are fetched in batches and written back.
func (c *Client) GetChannelBasic(ctx context.Context, ids []string) (map[string]domain.BasicInfo, error) {
	ids = lo.Uniq(lo.Compact(ids))
	result := make(map[string]domain.BasicInfo, len(ids))

	var missing []string
	for _, id := range ids {
		var info domain.BasicInfo
		if c.cache.Get(ctx, cachedomain.CacheTypeChannelBasic, id, &info) {
			c.tracker.Track(quotadomain.CategoryChannels, 0, true)
			result[id] = info
			continue
		}
		missing = append(missing, id)
	}

	for _, batch := range lo.Chunk(missing, c.cfg.ChannelBatchSize) {
		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(batch, ","))
		params.Set("maxResults", strconv.Itoa(len(batch)))

		var resp channelsResponse
		if err := c.get(ctx, "channels", params, &resp); err != nil {
			return result, oops.With("batch_size", len(batch), "context", "failed to fetch channel details").Wrap(err)
		}
		c.tracker.Track(quotadomain.CategoryChannels, c.channelsCost(len(batch)), false)

		for _, item := range resp.Items {
			info := toBasicInfo(item)
			result[info.ID] = info
			c.cache.Set(ctx, cachedomain.CacheTypeChannelBasic, info.ID, info)
		}
	}

	return result, nil
}

// GetChannelKeywords returns the channel's branding keywords, lower-cased and deduplicated.
func (c *Client) GetChannelKeywords(ctx context.Context, id string) ([]string, error) {
	var keywords []string
	if c.cache.Get(ctx, cachedomain.CacheTypeChannelKeywords, id, &keywords) {
		c.tracker.Track(quotadomain.CategoryChannels, 0, true)
		return keywords, nil
	}

	params := url.Values{}
	params.Set("part", "brandingSettings")
	params.Set("id", id)

	var resp channelsResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, oops.With("channel_id", id, "context", "failed to fetch channel keywords").Wrap(err)
	}
	c.tracker.Track(quotadomain.CategoryChannels, c.channelsCost(1), false)

	raw := ""
	if len(resp.Items) > 0 {
		raw = resp.Items[0].BrandingSettings.Channel.Keywords
	}
	keywords = ParseKeywords(raw)
	c.cache.Set(ctx, cachedomain.CacheTypeChannelKeywords, id, keywords)
	return keywords, nil
}

// GetChannelVideoTags returns the tags of the channel's most recent videos, lower-cased and deduplicated.
func (c *Client) GetChannelVideoTags(ctx context.Context, id string) ([]string, error) {
	var tags []string
	if c.cache.Get(ctx, cachedomain.CacheTypeChannelVideoTags, id, &tags) {
		c.tracker.Track(quotadomain.CategoryVideos, 0, true)
		return tags, nil
	}

	params := url.Values{}
	params.Set("part", "id")
	params.Set("type", "video")
	params.Set("channelId", id)
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(c.cfg.VideoSampleSize))

	var search searchResponse
	if err := c.get(ctx, "search", params, &search); err != nil {
		return nil, oops.With("channel_id", id, "context", "failed to list recent videos").Wrap(err)
	}
	c.tracker.Track(quotadomain.CategorySearch, quotadomain.SearchCost, false)

	videoIDs := lo.Uniq(lo.FilterMap(search.Items, func(item searchItem, _ int) (string, bool) {
		return item.ID.VideoID, item.ID.VideoID != ""
	}))

	tags = []string{}
	if len(videoIDs) > 0 {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("id", strings.Join(videoIDs, ","))

		var videos videosResponse
		if err := c.get(ctx, "videos", params, &videos); err != nil {
			return nil, oops.With("channel_id", id, "videos", len(videoIDs), "context", "failed to fetch video tags").Wrap(err)
		}
		c.tracker.Track(quotadomain.CategoryVideos, quotadomain.VideoBatchCost, false)

		for _, video := range videos.Items {
			for _, tag := range video.Snippet.Tags {
				if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
					tags = append(tags, tag)
				}
			}
		}
		tags = lo.Uniq(tags)
	}

	c.cache.Set(ctx, cachedomain.CacheTypeChannelVideoTags, id, tags)
	return tags, nil
}

func (c *Client) channelsCost(ids int) int64 {
	if c.cfg.ChannelCostPerID {
		return int64(ids) * quotadomain.ChannelCostPerID
	}
	return quotadomain.ChannelCostPerID
}

func toBasicInfo(item channelItem) domain.BasicInfo {
	info := domain.BasicInfo{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		SubscriberCount: parseCount(item.Statistics.SubscriberCount),
		ViewCount:       parseCount(item.Statistics.ViewCount),
		VideoCount:      parseCount(item.Statistics.VideoCount),
	}

	if size, ok := lo.Find(thumbnailSizes, func(size string) bool {
		return item.Snippet.Thumbnails[size].URL != ""
	}); ok {
		info.ThumbnailURL = item.Snippet.Thumbnails[size].URL
	}

	if item.Snippet.PublishedAt != "" {
		published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			slog.Debug("youtube: unparseable publishedAt", "channel_id", item.ID, "value", item.Snippet.PublishedAt)
		}
		info.PublishedAt = published
	}
	return info
}

// parseCount reads a statistics counter; missing or non-numeric values count as 0.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseKeywords splits a brandingSettings keyword string. Comma-separated lists are split on
// commas; otherwise keywords are separated by whitespace and quoted phrases stay whole.
// Results are trimmed, lower-cased and deduplicated.
func ParseKeywords(raw string) []string {
	var parts []string
	if strings.Contains(raw, ",") {
		parts = strings.Split(raw, ",")
	} else {
		parts = splitQuoted(raw)
	}

	keywords := lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"`)))
		return part, part != ""
	})
	return lo.Uniq(keywords)
}

func splitQuoted(s string) []string {
	var (
		parts   []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			flush()
			quoted = !quoted
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return parts
}
