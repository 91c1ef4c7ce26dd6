package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/feed/domain"
	searchdomain "github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
	"github.com/samber/lo"
)

// Service renders search results as RSS, Atom or JSON feeds
type Service struct{}

// New creates a new feed service
func New() *Service {
	return &Service{}
}

// Config derives the feed metadata for a session snapshot.
func (s *Service) Config(sessionID, baseURL string, snap searchdomain.Snapshot) domain.FeedConfig {
	title := "Channel search results"
	if len(snap.SearchTerms) > 0 {
		title = fmt.Sprintf("Channels matching %s", strings.Join(snap.SearchTerms, ", "))
	}
	return domain.FeedConfig{
		SessionID: sessionID,
		Title:     title,
		Link:      fmt.Sprintf("%s/api/sessions/%s", strings.TrimRight(baseURL, "/"), sessionID),
		Updated:   snap.UpdatedAt,
	}
}

// GenerateFeed builds a feed with one item per result, in ranked order
func (s *Service) GenerateFeed(sessionID, baseURL string, snap searchdomain.Snapshot) *feeds.Feed {
	cfg := s.Config(sessionID, baseURL, snap)

	feed := &feeds.Feed{
		Title:       cfg.Title,
		Link:        &feeds.Link{Href: cfg.Link},
		Description: fmt.Sprintf("%d channels with matching tags", len(snap.Results)),
		Id:          cfg.SessionID,
		Updated:     cfg.Updated,
		Created:     cfg.Updated,
	}

	feed.Items = lo.Map(snap.Results, func(ch channeldomain.EnrichedInfo, _ int) *feeds.Item {
		return channelToFeedItem(ch, cfg.Updated)
	})
	return feed
}

func channelToFeedItem(ch channeldomain.EnrichedInfo, updated time.Time) *feeds.Item {
	description := fmt.Sprintf("%d subscribers, %d views, %d videos",
		ch.SubscriberCount, ch.ViewCount, ch.VideoCount)

	var content strings.Builder
	if ch.ThumbnailURL != "" {
		fmt.Fprintf(&content, `<p><img src="%s" alt="%s"/></p>`, html.EscapeString(ch.ThumbnailURL), html.EscapeString(ch.Title))
	}
	fmt.Fprintf(&content, "<p>%s</p>", html.EscapeString(description))
	if ch.Description != "" {
		fmt.Fprintf(&content, "<p>%s</p>", html.EscapeString(truncate(ch.Description, 500)))
	}
	if len(ch.ChannelKeywords) > 0 {
		fmt.Fprintf(&content, "<p><strong>Keywords:</strong> %s</p>", html.EscapeString(strings.Join(ch.ChannelKeywords, ", ")))
	}
	if len(ch.VideoTags) > 0 {
		fmt.Fprintf(&content, "<p><strong>Video tags:</strong> %s</p>", html.EscapeString(strings.Join(ch.VideoTags, ", ")))
	}

	created := ch.PublishedAt
	if created.IsZero() {
		created = updated
	}

	return &feeds.Item{
		Title:       ch.Title,
		Link:        &feeds.Link{Href: ch.URL()},
		Description: description,
		Content:     content.String(),
		Id:          ch.ID,
		Created:     created,
		Updated:     updated,
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
