package domain

// Unit costs of the YouTube Data API v3 calls the client makes.
const (
	SearchCost       int64 = 100
	ChannelCostPerID int64 = 1
	VideoBatchCost   int64 = 1
)

// DefaultDailyLimit is the default daily quota of a Data API project.
const DefaultDailyLimit int64 = 10000

// State is a point-in-time view of the quota consumed by the current run.
type State struct {
	Search      int64 `json:"search"`
	Channels    int64 `json:"channels"`
	Videos      int64 `json:"videos"`
	Total       int64 `json:"total"`
	CacheHits   int64 `json:"cacheHits"`
	CacheMisses int64 `json:"cacheMisses"`
}

// CacheHitRate returns the share of lookups served from cache as a percentage.
func (s State) CacheHitRate() float64 {
	lookups := s.CacheHits + s.CacheMisses
	if lookups == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(lookups) * 100
}

// Remaining returns how many units are left of dailyLimit, never below zero.
func (s State) Remaining(dailyLimit int64) int64 {
	return max(dailyLimit-s.Total, 0)
}

// Severity grades a quota recommendation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityOK      Severity = "ok"
)

type Recommendation struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Analysis is a usage report over a State and the cache contents.
type Analysis struct {
	State           State            `json:"state"`
	DailyLimit      int64            `json:"dailyLimit"`
	Remaining       int64            `json:"remaining"`
	UsedPercent     float64          `json:"usedPercent"`
	HitRate         float64          `json:"hitRate"`
	Recommendations []Recommendation `json:"recommendations"`
}
