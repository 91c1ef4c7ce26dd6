package domain

import "time"

// BasicInfo is the snippet and statistics of a YouTube channel
type BasicInfo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ThumbnailURL    string    `json:"thumbnailUrl"`
	SubscriberCount int64     `json:"subscriberCount"`
	ViewCount       int64     `json:"viewCount"`
	VideoCount      int64     `json:"videoCount"`
	PublishedAt     time.Time `json:"publishedAt"`
}

// URL returns the public channel page.
func (c BasicInfo) URL() string {
	return "https://www.youtube.com/channel/" + c.ID
}

// EnrichedInfo is a channel with its keywords and recent video tags
type EnrichedInfo struct {
	BasicInfo
	ChannelKeywords []string `json:"channelKeywords"`
	VideoTags       []string `json:"videoTags"`
	HasMatchingTags bool     `json:"hasMatchingTags"`
}

// LogEntry records the verdict for one channel examined by a run
type LogEntry struct {
	Channel         EnrichedInfo `json:"channel"`
	MeetsCriteria   bool         `json:"meetsCriteria"`
	HasMatchingTags bool         `json:"hasMatchingTags"`
	RejectReason    RejectReason `json:"rejectReason,omitempty"`
}

// Criteria are the thresholds a channel must meet to be enriched
type Criteria struct {
	MinSubscribers int64
	MinViews       int64
	MaxAgeMonths   int
}
