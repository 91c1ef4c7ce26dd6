package client

import (
	"context"
	"net/url"
	"strconv"

	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// SearchPage is one page of video search results reduced to their channels.
type SearchPage struct {
	ChannelIDs    []string
	NextPageToken string
}

// SearchVideos runs one video search for term. Results are never cached.
func (c *Client) SearchVideos(ctx context.Context, term, pageToken string) (SearchPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", term)
	params.Set("maxResults", strconv.Itoa(c.cfg.SearchPageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp searchResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return SearchPage{}, oops.With("term", term, "page_token", pageToken).Wrap(err)
	}
	c.tracker.Track(quotadomain.CategorySearch, quotadomain.SearchCost, false)

	ids := lo.Uniq(lo.FilterMap(resp.Items, func(item searchItem, _ int) (string, bool) {
		return item.Snippet.ChannelID, item.Snippet.ChannelID != ""
	}))
	return SearchPage{ChannelIDs: ids, NextPageToken: resp.NextPageToken}, nil
}
