package service

import (
	"context"

	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/youtube/client"
	"github.com/samber/oops"
)

type VideoSearcher interface {
	SearchVideos(ctx context.Context, term, pageToken string) (client.SearchPage, error)
}

type BasicFetcher interface {
	GetChannelBasic(ctx context.Context, ids []string) (map[string]channeldomain.BasicInfo, error)
}

type DetailFetcher interface {
	GetChannelKeywords(ctx context.Context, id string) ([]string, error)
	GetChannelVideoTags(ctx context.Context, id string) ([]string, error)
}

// Resources is everything a run needs from the YouTube API.
type Resources interface {
	VideoSearcher
	BasicFetcher
	DetailFetcher
}

// ResourceFactory builds the Resources for one credential, charging quota to tracker.
type ResourceFactory func(apiKey string, tracker client.Tracker) Resources

// Discover pages through video search results for each term and returns the distinct
// channel ids in first-seen order.
func Discover(ctx context.Context, searcher VideoSearcher, terms []string, maxPages int) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string

	for _, term := range terms {
		token := ""
		for page := 0; page < maxPages; page++ {
			result, err := searcher.SearchVideos(ctx, term, token)
			if err != nil {
				return ids, oops.With("term", term, "page", page+1).Wrap(err)
			}
			for _, id := range result.ChannelIDs {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}

			token = result.NextPageToken
			if token == "" {
				break
			}
		}
	}
	return ids, nil
}

// FetchBasics returns the basic info for ids in the order of ids. Channels the API
// no longer knows about are skipped.
func FetchBasics(ctx context.Context, fetcher BasicFetcher, ids []string) ([]channeldomain.BasicInfo, error) {
	byID, err := fetcher.GetChannelBasic(ctx, ids)
	if err != nil {
		return nil, oops.With("channels", len(ids)).Wrap(err)
	}

	out := make([]channeldomain.BasicInfo, 0, len(byID))
	for _, id := range ids {
		if info, ok := byID[id]; ok {
			out = append(out, info)
		}
	}
	return out, nil
}
