//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// CacheType is the kind of YouTube resource held in a cache entry
// ENUM(channel_basic,channel_keywords,channel_video_tags)
type CacheType string
