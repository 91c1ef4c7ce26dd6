package domain

import "time"

// FeedConfig describes the feed published for one search session
type FeedConfig struct {
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Updated   time.Time `json:"updated"`
}
