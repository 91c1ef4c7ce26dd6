package domain

import (
	"time"

	channeldomain "github.com/reshetovitsme/channel-scout/internal/modules/channel/domain"
	quotadomain "github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
)

type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Summary reports the outcome of a search or load-more run.
type Summary struct {
	Kind            RunKind           `json:"kind"`
	Matches         int               `json:"matches"`
	NewMatches      int               `json:"newMatches"`
	Examined        int               `json:"examined"`
	Pending         int               `json:"pending"`
	HasMore         bool              `json:"hasMore"`
	Quota           quotadomain.State `json:"quota"`
	DailyLimit      int64             `json:"dailyLimit"`
	CacheEfficiency int               `json:"cacheEfficiency"` // percent
	Message         string            `json:"message"`
}

// Event is one observable step of a session, delivered in order to subscribers.
type Event struct {
	Seq       uint64                      `json:"seq"`
	Kind      EventKind                   `json:"kind"`
	Stage     Stage                       `json:"stage,omitempty"`
	Message   string                      `json:"message,omitempty"`
	Progress  *Progress                   `json:"progress,omitempty"`
	Log       *channeldomain.LogEntry     `json:"log,omitempty"`
	Result    *channeldomain.EnrichedInfo `json:"result,omitempty"`
	Summary   *Summary                    `json:"summary,omitempty"`
	Error     string                      `json:"error,omitempty"`
	ErrorKind string                      `json:"errorKind,omitempty"`
	At        time.Time                   `json:"at"`
}

// Snapshot is a copy of everything a session exposes.
type Snapshot struct {
	Stage          Stage                        `json:"stage"`
	Searching      bool                         `json:"searching"`
	Message        string                       `json:"message"`
	Progress       Progress                     `json:"progress"`
	SearchTerms    []string                     `json:"searchTerms"`
	Results        []channeldomain.EnrichedInfo `json:"results"`
	Logs           []channeldomain.LogEntry     `json:"logs"`
	PendingCount   int                          `json:"pendingCount"`
	HasMoreResults bool                         `json:"hasMoreResults"`
	Quota          quotadomain.State            `json:"quota"`
	Summary        *Summary                     `json:"summary,omitempty"`
	Error          string                       `json:"error,omitempty"`
	UpdatedAt      time.Time                    `json:"updatedAt"`
}
