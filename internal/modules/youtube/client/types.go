package client

// Subsets of the YouTube Data API v3 resources the client reads.

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type searchResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		ChannelID string `json:"channelId"`
	} `json:"snippet"`
}

type channelsResponse struct {
	Items []channelItem `json:"items"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type channelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string               `json:"title"`
		Description string               `json:"description"`
		PublishedAt string               `json:"publishedAt"`
		Thumbnails  map[string]thumbnail `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
		ViewCount       string `json:"viewCount"`
		VideoCount      string `json:"videoCount"`
	} `json:"statistics"`
	BrandingSettings struct {
		Channel struct {
			Keywords string `json:"keywords"`
		} `json:"channel"`
	} `json:"brandingSettings"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Tags []string `json:"tags"`
		} `json:"snippet"`
	} `json:"items"`
}
