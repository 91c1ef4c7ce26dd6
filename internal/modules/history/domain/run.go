package domain

import "time"

// Run is the persisted record of one finished search or load-more run
type Run struct {
	ID              string    `json:"id"`
	Owner           string    `json:"owner"`
	Kind            string    `json:"kind"`
	SearchTerms     []string  `json:"search_terms"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Examined        int       `json:"examined"`
	Matches         int       `json:"matches"`
	Pending         int       `json:"pending"`
	QuotaUsed       int64     `json:"quota_used"`
	CacheEfficiency int       `json:"cache_efficiency"`
	Error           string    `json:"error,omitempty"`
	ErrorKind       string    `json:"error_kind,omitempty"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed reports whether the run ended with an error.
func (r *Run) Failed() bool {
	return r.Error != ""
}
